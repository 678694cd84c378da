package main

import (
	"fleetbook/internal/bookings/events"
	"fleetbook/internal/bookings/handler"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/service"
	"fleetbook/internal/bookings/validator"
	"fleetbook/pkg/app"
	"fleetbook/pkg/client"
	"fleetbook/pkg/config"
	"fleetbook/pkg/kafka"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Bookings service")

	var mongoClient *client.MongoClient
	var repo repository.BookingRepository
	switch cfg.StorageBackend {
	case config.StorageBackendMongo:
		mongoClient = client.NewMongoClient(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
		repo = repository.NewMongoBookingRepository(cfg, mongoClient.Client)
	default:
		repo = repository.NewMemoryBookingRepository()
	}

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaEventsTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		defer producer.Close()
		publisher = events.NewPublisher(producer, cfg.Log)
		cfg.Log.Info("Booking event publishing enabled", "topic", cfg.KafkaEventsTopic)
	}

	store := service.NewBookingStore(
		repo,
		validator.NewBookingValidator(cfg.Log),
		service.SystemClock(),
		service.UUIDGenerator(),
		publisher,
		cfg,
	)
	cfg.Log.Info("Booking store initialized", "storage_backend", cfg.StorageBackend)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewBookingHandler(store, cfg.Log),
		handler.NewHealthHandler(mongoClient, cfg.Log),
	)
	serverApp.Run()
}
