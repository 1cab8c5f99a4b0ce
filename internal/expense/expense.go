// Package expense tracks a master's business expenses for the stats report.
package expense

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrExpenseNotFound = errors.New("expense not found")

type Expense struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Amount      int
	Description string
	CreatedAt   time.Time
}
