// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface using a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/storage"
)

var _ storage.Store = (*PostgresStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS debts (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    counterparty_name TEXT NOT NULL,
    counterparty_contact TEXT NOT NULL DEFAULT '',
    amount BIGINT NOT NULL CHECK (amount > 0),
    direction TEXT NOT NULL CHECK (direction IN ('lent', 'borrowed')),
    description TEXT NOT NULL DEFAULT '',
    due_date TIMESTAMPTZ NOT NULL,
    status TEXT NOT NULL CHECK (status IN ('pending', 'paid')),
    created_at TIMESTAMPTZ NOT NULL,
    paid_at TIMESTAMPTZ,
    split_id TEXT,
    version BIGINT NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_debts_owner_id ON debts(owner_id);
CREATE INDEX IF NOT EXISTS idx_debts_owner_status ON debts(owner_id, status);
CREATE INDEX IF NOT EXISTS idx_debts_split_id ON debts(split_id);
`

const debtColumns = `id, owner_id, counterparty_name, counterparty_contact, amount, direction,
	description, due_date, status, created_at, paid_at, split_id, version`

// PostgresStore implements storage.Store on a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// New connects to dsn, sizes the pool and runs migrations.
func New(ctx context.Context, dsn string, maxConns int) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to parse PostgreSQL config: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	cfg.HealthCheckPeriod = 15 * time.Second
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create PostgreSQL connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach PostgreSQL: %w", err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate debts table: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// CreateDebts inserts every record inside one transaction.
func (s *PostgresStore) CreateDebts(ctx context.Context, debts []*models.DebtRecord) error {
	if len(debts) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	for _, debt := range debts {
		storage.PrepareNew(debt, now)
		_, err := tx.Exec(ctx,
			`INSERT INTO debts (`+debtColumns+`)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			debt.ID, debt.OwnerID, debt.CounterpartyName, debt.CounterpartyContact,
			debt.Amount.Minor(), string(debt.Direction), debt.Description,
			debt.DueDate, string(debt.Status), debt.CreatedAt,
			debt.PaidAt, nullString(debt.SplitID), debt.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt %s: %w", debt.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDebt retrieves a debt by ID.
func (s *PostgresStore) GetDebt(ctx context.Context, id string) (*models.DebtRecord, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = $1`, id)
	debt, err := scanDebt(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListDebts retrieves debts matching the filter.
func (s *PostgresStore) ListDebts(ctx context.Context, filter models.DebtFilter) ([]*models.DebtRecord, error) {
	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if filter.OwnerID != "" {
		conds = append(conds, "owner_id = "+arg(filter.OwnerID))
	}
	if filter.Direction != "" {
		conds = append(conds, "direction = "+arg(string(filter.Direction)))
	}
	if filter.Status != "" {
		conds = append(conds, "status = "+arg(string(filter.Status)))
	}
	if !filter.DueBefore.IsZero() {
		conds = append(conds, "due_date < "+arg(filter.DueBefore))
	}

	query := `SELECT ` + debtColumns + ` FROM debts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_date, created_at, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	var debts []*models.DebtRecord
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		debts = append(debts, debt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate debts: %w", err)
	}
	return debts, nil
}

// MarkDebtPaid transitions a pending debt to paid. The row lock taken by the
// guarded UPDATE makes concurrent callers serialize; only one sees a pending
// row.
func (s *PostgresStore) MarkDebtPaid(ctx context.Context, id string, paidAt time.Time) (*models.DebtRecord, error) {
	row := s.pool.QueryRow(ctx,
		`UPDATE debts SET status = $1, paid_at = $2, version = version + 1
		 WHERE id = $3 AND status = $4
		 RETURNING `+debtColumns,
		string(models.StatusPaid), paidAt, id, string(models.StatusPending),
	)
	debt, err := scanDebt(row)
	if err == nil {
		return debt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to mark debt paid: %w", err)
	}

	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM debts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check debt existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: %s", storage.ErrAlreadyPaid, id)
}

// DeleteDebt removes a debt by ID.
func (s *PostgresStore) DeleteDebt(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM debts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}

func scanDebt(row pgx.Row) (*models.DebtRecord, error) {
	var (
		debt              models.DebtRecord
		amount            int64
		direction, status string
		splitID           *string
	)
	if err := row.Scan(&debt.ID, &debt.OwnerID, &debt.CounterpartyName, &debt.CounterpartyContact,
		&amount, &direction, &debt.Description, &debt.DueDate, &status, &debt.CreatedAt,
		&debt.PaidAt, &splitID, &debt.Version); err != nil {
		return nil, err
	}
	debt.Amount = money.FromMinor(amount)
	debt.Direction = models.Direction(direction)
	debt.Status = models.DebtStatus(status)
	debt.DueDate = debt.DueDate.UTC()
	debt.CreatedAt = debt.CreatedAt.UTC()
	if debt.PaidAt != nil {
		t := debt.PaidAt.UTC()
		debt.PaidAt = &t
	}
	if splitID != nil {
		debt.SplitID = *splitID
	}
	return &debt, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
