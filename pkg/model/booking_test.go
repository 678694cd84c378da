package model

import "testing"

func TestClone_IsDeep(t *testing.T) {
	updatedAt := int64(500)
	original := &Booking{
		ID:        "b-1",
		CarModel:  "Tesla Model 3",
		StartDate: 100,
		EndDate:   200,
		Location:  "NYC",
		UserID:    "u1",
		Price:     50,
		CreatedAt: 400,
		UpdatedAt: &updatedAt,
	}

	clone := original.Clone()
	if clone == original {
		t.Fatal("Clone must return a new record")
	}
	if *clone != *original {
		// The UpdatedAt pointers differ by design; compare fields instead.
		if clone.ID != original.ID || clone.CarModel != original.CarModel ||
			clone.CreatedAt != original.CreatedAt || *clone.UpdatedAt != *original.UpdatedAt {
			t.Errorf("clone differs from original: %+v vs %+v", clone, original)
		}
	}

	*clone.UpdatedAt = 999
	clone.CarModel = "mutated"
	if *original.UpdatedAt != 500 || original.CarModel != "Tesla Model 3" {
		t.Errorf("mutating the clone leaked into the original: %+v", original)
	}
}

func TestClone_NilReceiver(t *testing.T) {
	var b *Booking
	if b.Clone() != nil {
		t.Error("cloning a nil booking must return nil")
	}
}
