package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/validator"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
	"fleetbook/pkg/sanitizer"
)

// BookingStore owns the keyed collection of booking records and provides
// validated mutation plus read and filter access. Every operation returns
// either a result or an *errors.AppError tagged value.
type BookingStore interface {
	ListAll(ctx context.Context) ([]*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	Add(ctx context.Context, input *model.BookingInput) (*model.Booking, error)
	Update(ctx context.Context, id string, input *model.BookingInput) (*model.Booking, error)
	Delete(ctx context.Context, id string) (*model.Booking, error)
	Search(ctx context.Context, keyword string) ([]*model.Booking, error)
	CountAll(ctx context.Context) (int64, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*model.Booking, error)
	ByTimeRange(ctx context.Context, startTime, endTime int64) ([]*model.Booking, error)
	ByStartDate(ctx context.Context, startDate int64) ([]*model.Booking, error)
	ByEndDate(ctx context.Context, endDate int64) ([]*model.Booking, error)
	ByCarModel(ctx context.Context, carModel string) ([]*model.Booking, error)
}

// EventPublisher receives lifecycle notifications after successful
// mutations. Publishing is best-effort and must never fail the mutation.
type EventPublisher interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingUpdated(ctx context.Context, booking *model.Booking)
	BookingDeleted(ctx context.Context, booking *model.Booking)
}

type bookingStore struct {
	// mu keeps at most one operation in flight per store instance.
	mu        sync.Mutex
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	clock     Clock
	ids       IDGenerator
	events    EventPublisher
	cfg       *config.Config
}

func NewBookingStore(
	repo repository.BookingRepository,
	bookingValidator *validator.BookingValidator,
	clock Clock,
	ids IDGenerator,
	events EventPublisher,
	cfg *config.Config,
) BookingStore {
	return &bookingStore{
		repo:      repo,
		validator: bookingValidator,
		clock:     clock,
		ids:       ids,
		events:    events,
		cfg:       cfg,
	}
}

func (s *bookingStore) ListAll(ctx context.Context) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findAll(ctx)
}

func (s *bookingStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingStore) Add(ctx context.Context, input *model.BookingInput) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sanitize(input)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		ID:        s.ids.NewID(),
		CarModel:  input.CarModel,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Location:  input.Location,
		UserID:    input.UserID,
		Price:     *input.Price,
		IsPaid:    *input.IsPaid,
		CreatedAt: s.clock.Now().UnixNano(),
	}

	if err := s.repo.Insert(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"car_model", booking.CarModel,
		"user_id", booking.UserID,
	)
	if s.events != nil {
		s.events.BookingCreated(ctx, booking)
	}
	return booking.Clone(), nil
}

func (s *bookingStore) Update(ctx context.Context, id string, input *model.BookingInput) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sanitize(input)
	if err := s.validate(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to check booking existence", err)
	}

	updatedAt := s.clock.Now().UnixNano()
	updated := &model.Booking{
		ID:        existing.ID,
		CarModel:  input.CarModel,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Location:  input.Location,
		UserID:    input.UserID,
		Price:     *input.Price,
		IsPaid:    *input.IsPaid,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: &updatedAt,
	}

	if err := s.repo.Insert(ctx, updated); err != nil {
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated", "id", id)
	if s.events != nil {
		s.events.BookingUpdated(ctx, updated)
	}
	return updated.Clone(), nil
}

func (s *bookingStore) Delete(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to delete booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted", "id", id)
	if s.events != nil {
		s.events.BookingDeleted(ctx, removed)
	}
	return removed, nil
}

// Search matches keyword as a case-insensitive substring of the car model.
// An empty keyword matches every record.
func (s *bookingStore) Search(ctx context.Context, keyword string) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(keyword)
	return s.filter(ctx, func(b *model.Booking) bool {
		return strings.Contains(strings.ToLower(b.CarModel), needle)
	})
}

func (s *bookingStore) CountAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Internal("Failed to count bookings", err)
	}
	return count, nil
}

// Paginate returns the page-th window (1-indexed) of the full listing.
// Non-positive page or pageSize and windows past the end of the collection
// degrade to an empty result.
func (s *bookingStore) Paginate(ctx context.Context, page, pageSize int) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bookings, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	if page <= 0 || pageSize <= 0 {
		return []*model.Booking{}, nil
	}

	start := (page - 1) * pageSize
	if start >= len(bookings) {
		return []*model.Booking{}, nil
	}

	end := start + pageSize
	if end > len(bookings) {
		end = len(bookings)
	}
	return bookings[start:end], nil
}

// ByTimeRange returns records whose window lies entirely within the query
// window. This is a containment test, not an overlap test.
func (s *bookingStore) ByTimeRange(ctx context.Context, startTime, endTime int64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(ctx, func(b *model.Booking) bool {
		return b.StartDate >= startTime && b.EndDate <= endTime
	})
}

func (s *bookingStore) ByStartDate(ctx context.Context, startDate int64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(ctx, func(b *model.Booking) bool {
		return b.StartDate == startDate
	})
}

func (s *bookingStore) ByEndDate(ctx context.Context, endDate int64) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter(ctx, func(b *model.Booking) bool {
		return b.EndDate == endDate
	})
}

// ByCarModel is a case-insensitive full-equality filter, unlike Search's
// substring match.
func (s *bookingStore) ByCarModel(ctx context.Context, carModel string) ([]*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := strings.ToLower(carModel)
	return s.filter(ctx, func(b *model.Booking) bool {
		return strings.ToLower(b.CarModel) == wanted
	})
}

// --- Helpers ---

func (s *bookingStore) findAll(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingStore) filter(ctx context.Context, keep func(*model.Booking) bool) ([]*model.Booking, error) {
	bookings, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := []*model.Booking{}
	for _, b := range bookings {
		if keep(b) {
			matched = append(matched, b)
		}
	}
	return matched, nil
}

func (s *bookingStore) sanitize(input *model.BookingInput) {
	input.CarModel = sanitizer.TrimAndNormalize(input.CarModel)
	input.Location = sanitizer.TrimAndNormalize(input.Location)
	input.UserID = sanitizer.TrimAndNormalize(input.UserID)
}

func (s *bookingStore) validate(input *model.BookingInput) error {
	if err := s.validator.Validate(input); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		var ve validator.ValidationError
		if errors.As(err, &ve) {
			return apperrors.Validation(ve.Message, map[string]any{"field": ve.Field})
		}
		return apperrors.Validation(err.Error(), nil)
	}
	return nil
}
