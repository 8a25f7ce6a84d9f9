// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/models"
)

var (
	// ErrNotFound is returned when a debt record does not exist.
	ErrNotFound = errors.New("debt not found")

	// ErrAlreadyPaid is returned when marking a debt that is already paid,
	// including when a concurrent caller won the race.
	ErrAlreadyPaid = errors.New("debt already settled")
)

// Store defines the interface for debt ledger storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
type Store interface {
	// CreateDebts persists all records in a single transaction. Either every
	// record is written or none is. Empty IDs are filled in by the store.
	CreateDebts(ctx context.Context, debts []*models.DebtRecord) error

	// GetDebt retrieves a debt by ID. Returns ErrNotFound if missing.
	GetDebt(ctx context.Context, id string) (*models.DebtRecord, error)

	// ListDebts returns records matching filter, ordered by due date then
	// creation time.
	ListDebts(ctx context.Context, filter models.DebtFilter) ([]*models.DebtRecord, error)

	// MarkDebtPaid moves a pending debt to paid and returns the updated
	// record. Returns ErrNotFound or ErrAlreadyPaid.
	MarkDebtPaid(ctx context.Context, id string, paidAt time.Time) (*models.DebtRecord, error)

	// DeleteDebt removes a debt. Returns ErrNotFound if missing.
	DeleteDebt(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// PrepareNew fills in store-assigned fields on a record about to be
// inserted: a UUID, the creation time, pending status and the first version.
func PrepareNew(debt *models.DebtRecord, now time.Time) {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.CreatedAt.IsZero() {
		debt.CreatedAt = now.UTC().Truncate(time.Second)
	}
	if debt.Status == "" {
		debt.Status = models.StatusPending
	}
	if debt.Version == 0 {
		debt.Version = 1
	}
}
