package repository

import (
	"context"
	"sync"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/pkg/model"
)

// memoryBookingRepository keeps records in a map plus an insertion-order key
// slice, so FindAll iterates in the order records were first inserted.
// Overwriting an existing id keeps its position. Records are cloned on both
// write and read.
type memoryBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*model.Booking
	order    []string
}

func NewMemoryBookingRepository() BookingRepository {
	return &memoryBookingRepository{
		bookings: make(map[string]*model.Booking),
	}
}

func (r *memoryBookingRepository) Insert(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; !exists {
		r.order = append(r.order, booking.ID)
	}
	r.bookings[booking.ID] = booking.Clone()
	return nil
}

func (r *memoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return booking.Clone(), nil
}

func (r *memoryBookingRepository) FindAll(_ context.Context) ([]*model.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bookings := make([]*model.Booking, 0, len(r.order))
	for _, id := range r.order {
		bookings = append(bookings, r.bookings[id].Clone())
	}
	return bookings, nil
}

func (r *memoryBookingRepository) Remove(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.bookings, id)

	for i, key := range r.order {
		if key == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *memoryBookingRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.bookings)), nil
}
