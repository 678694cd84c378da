package service

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the timestamps stamped onto records. Injected so tests can
// pin time.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces the opaque unique ids assigned at creation. The
// generator guarantees uniqueness; the store does not re-check before
// insert.
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

func SystemClock() Clock { return systemClock{} }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

func UUIDGenerator() IDGenerator { return uuidGenerator{} }
