package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/validator"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type seqIDGenerator struct {
	n int
}

func (g *seqIDGenerator) NewID() string {
	g.n++
	return fmt.Sprintf("booking-%d", g.n)
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Format: logger.JSON, Service: "test"}),
	}
}

func newTestStore(t *testing.T) (BookingStore, *fakeClock) {
	t.Helper()
	cfg := testConfig()
	clock := &fakeClock{now: time.Unix(0, 1_000_000)}
	store := NewBookingStore(
		repository.NewMemoryBookingRepository(),
		validator.NewBookingValidator(cfg.Log),
		clock,
		&seqIDGenerator{},
		nil,
		cfg,
	)
	return store, clock
}

func validInput() *model.BookingInput {
	price := 50.0
	paid := false
	return &model.BookingInput{
		CarModel:  "Tesla Model 3",
		StartDate: 100,
		EndDate:   200,
		Location:  "NYC",
		UserID:    "u1",
		Price:     &price,
		IsPaid:    &paid,
	}
}

func assertCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func TestAdd_AssignsIDAndTimestamps(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	booking, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.ID != "booking-1" {
		t.Errorf("expected generated id booking-1, got %q", booking.ID)
	}
	if booking.CreatedAt != clock.Now().UnixNano() {
		t.Errorf("expected created_at %d, got %d", clock.Now().UnixNano(), booking.CreatedAt)
	}
	if booking.UpdatedAt != nil {
		t.Errorf("expected updated_at to be absent at creation, got %d", *booking.UpdatedAt)
	}
	if booking.CarModel != "Tesla Model 3" || booking.Location != "NYC" || booking.UserID != "u1" {
		t.Errorf("input fields not carried onto record: %+v", booking)
	}
	if booking.Price != 50.0 || booking.IsPaid {
		t.Errorf("price/is_paid not carried onto record: %+v", booking)
	}
}

func TestAdd_ThenGetByID_ReturnsEqualRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *got != *added {
		t.Errorf("GetByID returned a different record:\nadded: %+v\ngot:   %+v", added, got)
	}
}

func TestAdd_InvalidDateOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	input := validInput()
	input.StartDate = 200
	input.EndDate = 100

	_, err := store.Add(ctx, input)
	appErr := assertCode(t, err, apperrors.CodeValidation)
	if appErr.Message != "end date must be after start date" {
		t.Errorf("unexpected message: %q", appErr.Message)
	}

	count, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected add must leave the store unchanged, count = %d", count)
	}
}

func TestAdd_RequiredFieldPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.BookingInput)
		wantField string
	}{
		{
			name:      "missing car model",
			mutate:    func(in *model.BookingInput) { in.CarModel = "" },
			wantField: "CarModel",
		},
		{
			name:      "whitespace-only location",
			mutate:    func(in *model.BookingInput) { in.Location = "   " },
			wantField: "Location",
		},
		{
			name:      "missing user id",
			mutate:    func(in *model.BookingInput) { in.UserID = "" },
			wantField: "UserID",
		},
		{
			name:      "absent price",
			mutate:    func(in *model.BookingInput) { in.Price = nil },
			wantField: "Price",
		},
		{
			name: "negative price",
			mutate: func(in *model.BookingInput) {
				price := -1.0
				in.Price = &price
			},
			wantField: "Price",
		},
		{
			name:      "absent is_paid",
			mutate:    func(in *model.BookingInput) { in.IsPaid = nil },
			wantField: "IsPaid",
		},
		{
			name: "missing field wins over bad date order",
			mutate: func(in *model.BookingInput) {
				in.CarModel = ""
				in.StartDate = 300
				in.EndDate = 100
			},
			wantField: "CarModel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			input := validInput()
			tt.mutate(input)

			_, err := store.Add(context.Background(), input)
			appErr := assertCode(t, err, apperrors.CodeValidation)
			if appErr.Details["field"] != tt.wantField {
				t.Errorf("expected failing field %s, got %v", tt.wantField, appErr.Details["field"])
			}
		})
	}
}

func TestUpdate_PreservesIdentityAndStampsUpdatedAt(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clock.Advance(time.Hour)
	input := validInput()
	input.CarModel = "Honda Civic"
	input.StartDate = 500
	input.EndDate = 900

	updated, err := store.Update(ctx, added.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.ID != added.ID {
		t.Errorf("update must preserve id: %q != %q", updated.ID, added.ID)
	}
	if updated.CreatedAt != added.CreatedAt {
		t.Errorf("update must preserve created_at: %d != %d", updated.CreatedAt, added.CreatedAt)
	}
	if updated.CarModel != "Honda Civic" || updated.StartDate != 500 || updated.EndDate != 900 {
		t.Errorf("update must overwrite mutable fields: %+v", updated)
	}
	if updated.UpdatedAt == nil {
		t.Fatal("expected updated_at to be set after update")
	}
	if *updated.UpdatedAt != clock.Now().UnixNano() {
		t.Errorf("expected updated_at %d, got %d", clock.Now().UnixNano(), *updated.UpdatedAt)
	}

	firstUpdatedAt := *updated.UpdatedAt
	clock.Advance(time.Hour)
	again, err := store.Update(ctx, added.ID, input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.UpdatedAt == nil || *again.UpdatedAt < firstUpdatedAt {
		t.Errorf("updated_at must never move backwards: %v < %d", again.UpdatedAt, firstUpdatedAt)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := store.Update(ctx, "missing-id", validInput())
	appErr := assertCode(t, err, apperrors.CodeNotFound)
	if appErr.Details["id"] != "missing-id" {
		t.Errorf("not-found error must name the missing id, got %v", appErr.Details["id"])
	}

	count, err := store.CountAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("failed update must leave the store unchanged, count = %d", count)
	}
}

func TestUpdate_ValidationBeforeLookup(t *testing.T) {
	store, _ := newTestStore(t)

	input := validInput()
	input.CarModel = ""

	_, err := store.Update(context.Background(), "missing-id", input)
	assertCode(t, err, apperrors.CodeValidation)
}

func TestDelete_RemovesAndReturnsRecord(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	removed, err := store.Delete(ctx, added.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *removed != *added {
		t.Errorf("delete must return the removed record:\n%+v\n%+v", removed, added)
	}

	_, err = store.GetByID(ctx, added.ID)
	assertCode(t, err, apperrors.CodeNotFound)

	_, err = store.Delete(ctx, added.ID)
	assertCode(t, err, apperrors.CodeNotFound)
}

func TestCountAll_MatchesListAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	check := func(step string) {
		t.Helper()
		all, err := store.ListAll(ctx)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step, err)
		}
		count, err := store.CountAll(ctx)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step, err)
		}
		if count != int64(len(all)) {
			t.Errorf("%s: CountAll %d != len(ListAll) %d", step, count, len(all))
		}
	}

	check("empty store")

	var ids []string
	for i := 0; i < 4; i++ {
		b, err := store.Add(ctx, validInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		ids = append(ids, b.ID)
	}
	check("after adds")

	if _, err := store.Update(ctx, ids[1], validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check("after update")

	if _, err := store.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	check("after delete")
}

func TestGetByID_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if *first != *second {
		t.Errorf("consecutive reads must return identical values:\n%+v\n%+v", first, second)
	}
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	added, err := store.Add(ctx, validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	added.CarModel = "mutated"
	added.Price = -999

	got, err := store.GetByID(ctx, added.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CarModel != "Tesla Model 3" || got.Price != 50.0 {
		t.Errorf("mutating a returned record must not affect stored state: %+v", got)
	}
}

func TestAdd_SanitizesFreeTextFields(t *testing.T) {
	store, _ := newTestStore(t)

	input := validInput()
	input.CarModel = "  Tesla   Model 3  "
	input.Location = "\tNYC "

	booking, err := store.Add(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.CarModel != "Tesla Model 3" {
		t.Errorf("expected normalized car model, got %q", booking.CarModel)
	}
	if booking.Location != "NYC" {
		t.Errorf("expected normalized location, got %q", booking.Location)
	}
}

// faultyRepository simulates a storage fault on every call.
type faultyRepository struct{}

var errStorage = fmt.Errorf("storage unavailable")

func (faultyRepository) Insert(context.Context, *model.Booking) error { return errStorage }
func (faultyRepository) FindByID(context.Context, string) (*model.Booking, error) {
	return nil, errStorage
}
func (faultyRepository) FindAll(context.Context) ([]*model.Booking, error) { return nil, errStorage }
func (faultyRepository) Remove(context.Context, string) error              { return errStorage }
func (faultyRepository) Count(context.Context) (int64, error)              { return 0, errStorage }

func TestStorageFaultsSurfaceAsInternal(t *testing.T) {
	cfg := testConfig()
	store := NewBookingStore(
		faultyRepository{},
		validator.NewBookingValidator(cfg.Log),
		&fakeClock{now: time.Unix(0, 0)},
		&seqIDGenerator{},
		nil,
		cfg,
	)
	ctx := context.Background()

	if _, err := store.ListAll(ctx); err != nil {
		assertCode(t, err, apperrors.CodeInternal)
	} else {
		t.Error("expected storage fault from ListAll")
	}

	if _, err := store.Add(ctx, validInput()); err != nil {
		assertCode(t, err, apperrors.CodeInternal)
	} else {
		t.Error("expected storage fault from Add")
	}

	if _, err := store.CountAll(ctx); err != nil {
		assertCode(t, err, apperrors.CodeInternal)
	} else {
		t.Error("expected storage fault from CountAll")
	}
}
