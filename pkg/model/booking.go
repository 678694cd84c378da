package model

// Booking is the persisted car-rental record. ID and CreatedAt are assigned
// by the store at insertion and never change afterwards. UpdatedAt stays nil
// until the first successful update.
type Booking struct {
	ID        string  `json:"id,omitempty" bson:"_id,omitempty"`
	CarModel  string  `json:"car_model" bson:"car_model"`
	StartDate int64   `json:"start_date" bson:"start_date"`
	EndDate   int64   `json:"end_date" bson:"end_date"`
	Location  string  `json:"location" bson:"location"`
	UserID    string  `json:"user_id" bson:"user_id"`
	Price     float64 `json:"price" bson:"price"`
	IsPaid    bool    `json:"is_paid" bson:"is_paid"`
	CreatedAt int64   `json:"created_at" bson:"created_at"`
	UpdatedAt *int64  `json:"updated_at,omitempty" bson:"updated_at,omitempty"`
}

// BookingInput carries the caller-supplied fields for Create and Update.
// Price and IsPaid are pointers so that "field missing from the payload"
// is distinguishable from a legitimate zero value.
type BookingInput struct {
	CarModel  string   `json:"car_model" validate:"required"`
	StartDate int64    `json:"start_date"`
	EndDate   int64    `json:"end_date"`
	Location  string   `json:"location" validate:"required"`
	UserID    string   `json:"user_id" validate:"required"`
	Price     *float64 `json:"price" validate:"required,gte=0"`
	IsPaid    *bool    `json:"is_paid" validate:"required"`
}

// Clone returns a deep copy of the booking. The store hands out clones only,
// so callers can never mutate stored state through a returned record.
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	clone := *b
	if b.UpdatedAt != nil {
		updatedAt := *b.UpdatedAt
		clone.UpdatedAt = &updatedAt
	}
	return &clone
}
