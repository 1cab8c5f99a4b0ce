// Package clientbook holds a master's private client records.
package clientbook

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrClientNotFound = errors.New("client not found")

type Client struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Name      string
	Phone     string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
