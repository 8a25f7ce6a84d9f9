// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

const debtColumns = `id, owner_id, counterparty_name, counterparty_contact, amount, direction,
	description, due_date, status, created_at, paid_at, split_id, version`

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes writers, so concurrent mark-paid calls
	// queue instead of failing with SQLITE_BUSY, and the pragmas below stick.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDebts inserts every record inside one transaction.
func (s *SQLiteStore) CreateDebts(ctx context.Context, debts []*models.DebtRecord) error {
	if len(debts) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, debt := range debts {
		storage.PrepareNew(debt, now)
		_, err := stmt.ExecContext(ctx,
			debt.ID, debt.OwnerID, debt.CounterpartyName, debt.CounterpartyContact,
			debt.Amount.Minor(), string(debt.Direction), debt.Description,
			debt.DueDate.Unix(), string(debt.Status), debt.CreatedAt.Unix(),
			nullUnix(debt.PaidAt), nullString(debt.SplitID), debt.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert debt %s: %w", debt.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDebt retrieves a debt by ID.
func (s *SQLiteStore) GetDebt(ctx context.Context, id string) (*models.DebtRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get debt: %w", err)
	}
	return debt, nil
}

// ListDebts retrieves debts matching the filter.
func (s *SQLiteStore) ListDebts(ctx context.Context, filter models.DebtFilter) ([]*models.DebtRecord, error) {
	var conds []string
	var args []any
	if filter.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Direction != "" {
		conds = append(conds, "direction = ?")
		args = append(args, string(filter.Direction))
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if !filter.DueBefore.IsZero() {
		conds = append(conds, "due_date < ?")
		args = append(args, filter.DueBefore.Unix())
	}

	query := `SELECT ` + debtColumns + ` FROM debts`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY due_date, created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
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

// MarkDebtPaid transitions a pending debt to paid. The status guard in the
// UPDATE makes the transition happen at most once.
func (s *SQLiteStore) MarkDebtPaid(ctx context.Context, id string, paidAt time.Time) (*models.DebtRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE debts SET status = ?, paid_at = ?, version = version + 1
		 WHERE id = ? AND status = ?`,
		string(models.StatusPaid), paidAt.Unix(), id, string(models.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark debt paid: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}

	row := tx.QueryRowContext(ctx, `SELECT `+debtColumns+` FROM debts WHERE id = ?`, id)
	debt, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reload debt: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", storage.ErrAlreadyPaid, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return debt, nil
}

// DeleteDebt removes a debt by ID.
func (s *SQLiteStore) DeleteDebt(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM debts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete debt: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDebt(row scanner) (*models.DebtRecord, error) {
	var (
		debt               models.DebtRecord
		amount             int64
		direction, status  string
		dueDate, createdAt int64
		paidAt             sql.NullInt64
		splitID            sql.NullString
	)
	if err := row.Scan(&debt.ID, &debt.OwnerID, &debt.CounterpartyName, &debt.CounterpartyContact,
		&amount, &direction, &debt.Description, &dueDate, &status, &createdAt,
		&paidAt, &splitID, &debt.Version); err != nil {
		return nil, err
	}

	debt.Amount = money.FromMinor(amount)
	debt.Direction = models.Direction(direction)
	debt.Status = models.DebtStatus(status)
	debt.DueDate = time.Unix(dueDate, 0).UTC()
	debt.CreatedAt = time.Unix(createdAt, 0).UTC()
	if paidAt.Valid {
		t := time.Unix(paidAt.Int64, 0).UTC()
		debt.PaidAt = &t
	}
	if splitID.Valid {
		debt.SplitID = splitID.String
	}
	return &debt, nil
}

func nullUnix(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
