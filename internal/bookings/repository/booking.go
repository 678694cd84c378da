package repository

import (
	"context"

	"fleetbook/pkg/model"
)

// BookingRepository is the ordered keyed collection backing the store.
// Implementations must keep a stable iteration order (insertion order for
// the in-memory variant, created_at order for Mongo) and must never hand
// out aliases of stored records. Any failure is a storage fault; the
// service propagates it verbatim.
type BookingRepository interface {
	// Insert stores the record under its id, overwriting any existing
	// record with the same id.
	Insert(ctx context.Context, booking *model.Booking) error

	// FindByID returns the record for id, or errors.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Booking, error)

	// FindAll returns every stored record in the collection's iteration
	// order.
	FindAll(ctx context.Context) ([]*model.Booking, error)

	// Remove deletes the record for id, or returns errors.ErrNotFound.
	Remove(ctx context.Context, id string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int64, error)
}
