package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	StorageBackendMongo   = "mongo"
	StorageBackendMemory  = "memory"
	DefaultStorageBackend = StorageBackendMongo

	DefaultKafkaEventsTopic = "booking-events"

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 15 * time.Second
	DefaultMaxRequestSize = 1 << 20

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPageSize = 20
	MaxPageSize     = 100
)
