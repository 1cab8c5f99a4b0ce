// Package catalog holds the services a master offers for booking.
package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrServiceNotFound = errors.New("service not found")

// Service is one offering on a master's price list. Price is in whole
// currency units; DurationMin drives slot sizing on the public page.
type Service struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Price       int
	DurationMin int
	IsPublic    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
