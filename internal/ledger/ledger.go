// Package ledger materializes settlements into persistent debt records and
// owns their lifecycle.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/metrics"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
	"github.com/mmynk/settleup/internal/storage"
)

// DefaultDueAfter is how long after creation a settlement-derived debt falls due.
const DefaultDueAfter = 7 * 24 * time.Hour

const splitDescriptionPrefix = "Split expense: "

var (
	// ErrInternal marks internal-consistency failures, e.g. a split that
	// passed validation but does not net to zero. Nothing is written.
	ErrInternal = errors.New("internal consistency error")

	// ErrInvalidDebt is returned for malformed manual entries or settlements.
	ErrInvalidDebt = errors.New("invalid debt")
)

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithDueAfter overrides DefaultDueAfter.
func WithDueAfter(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.dueAfter = d
		}
	}
}

// WithMetrics records ledger activity on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// Ledger is the debt ledger. It is safe for concurrent use; consistency of
// individual records is delegated to the store.
type Ledger struct {
	store    storage.Store
	now      func() time.Time
	dueAfter time.Duration
	metrics  *metrics.Metrics
	solve    func([]models.Participant) ([]models.Settlement, error)

	mu          sync.RWMutex
	subscribers []Subscriber
}

// New creates a Ledger over store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:    store,
		now:      time.Now,
		dueAfter: DefaultDueAfter,
		solve:    calculator.SolveSettlement,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) clock() time.Time {
	return l.now().UTC().Truncate(time.Second)
}

// SplitResult is the outcome of Settle. When Violations is non-empty nothing
// else is populated and nothing was written.
type SplitResult struct {
	SplitID     string
	Spec        models.SplitSpecification
	Violations  []calculator.Violation
	Settlements []models.Settlement
	Debts       []*models.DebtRecord
}

// Valid reports whether the split passed validation.
func (r *SplitResult) Valid() bool {
	return len(r.Violations) == 0
}

// Settle runs the whole pipeline for one split: validate, allocate shares,
// solve settlements and write the resulting debts relative to ownerID.
//
// Validation failures are returned in the result, not as an error.
// A solver failure is logged with the full input and returned as
// ErrInternal.
func (l *Ledger) Settle(ctx context.Context, spec models.SplitSpecification, ownerID string) (*SplitResult, error) {
	if vs := calculator.ValidateSplit(spec); len(vs) > 0 {
		l.metrics.ObserveSplit(metrics.OutcomeInvalid, 0)
		slog.Debug("Split rejected", "description", spec.Description, "violations", len(vs))
		return &SplitResult{Spec: spec, Violations: vs}, nil
	}

	computed := calculator.ComputeShares(spec)
	settlements, err := l.solve(computed.Participants)
	if err != nil {
		l.metrics.ObserveSplit(metrics.OutcomeInternal, 0)
		slog.Error("Settlement solver failed on validated split",
			"error", err,
			"description", computed.Description,
			"total", computed.TotalAmount,
			"strategy", computed.Strategy,
			"participants", computed.Participants,
			"owner_id", ownerID,
		)
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}

	debts, err := l.CreateFromSettlements(ctx, computed.Description, settlements, ownerID)
	if err != nil {
		return nil, err
	}
	l.metrics.ObserveSplit(metrics.OutcomeSettled, len(settlements))

	result := &SplitResult{Spec: computed, Settlements: settlements, Debts: debts}
	if len(debts) > 0 {
		result.SplitID = debts[0].SplitID
	}
	return result, nil
}

// CreateFromSettlements writes one debt per settlement, all or nothing.
//
// Direction is relative to ownerID: when the owner receives the transfer the
// debt is lent, when the owner pays it is borrowed. A settlement that does not
// involve the owner is recorded in the creditor's own ledger as lent.
func (l *Ledger) CreateFromSettlements(ctx context.Context, description string, settlements []models.Settlement, ownerID string) ([]*models.DebtRecord, error) {
	if len(settlements) == 0 {
		return nil, nil
	}

	now := l.clock()
	due := now.Add(l.dueAfter)
	splitID := uuid.NewString()

	debts := make([]*models.DebtRecord, 0, len(settlements))
	for i, s := range settlements {
		if s.Amount <= 0 {
			return nil, fmt.Errorf("%w: settlement %d has non-positive amount %s", ErrInvalidDebt, i, s.Amount)
		}
		debt := &models.DebtRecord{
			Amount:      s.Amount,
			Description: splitDescriptionPrefix + description,
			DueDate:     due,
			Status:      models.StatusPending,
			CreatedAt:   now,
			SplitID:     splitID,
		}
		switch ownerID {
		case s.From.ID:
			debt.OwnerID = ownerID
			debt.Direction = models.DirectionBorrowed
			debt.CounterpartyName, debt.CounterpartyContact = s.To.Name, s.To.Contact
		case s.To.ID:
			debt.OwnerID = ownerID
			debt.Direction = models.DirectionLent
			debt.CounterpartyName, debt.CounterpartyContact = s.From.Name, s.From.Contact
		default:
			debt.OwnerID = s.To.ID
			debt.Direction = models.DirectionLent
			debt.CounterpartyName, debt.CounterpartyContact = s.From.Name, s.From.Contact
		}
		debts = append(debts, debt)
	}

	if err := l.store.CreateDebts(ctx, debts); err != nil {
		return nil, fmt.Errorf("failed to record settlement debts: %w", err)
	}

	for _, debt := range debts {
		l.metrics.DebtCreated(string(debt.Direction), metrics.SourceSettlement)
		l.emit(ctx, EventDebtCreated, debt)
	}
	slog.Info("Recorded settlement debts", "split_id", splitID, "owner_id", ownerID, "count", len(debts))
	return debts, nil
}

// ManualDebt is the caller-supplied part of an informal lend/borrow entry.
type ManualDebt struct {
	OwnerID             string
	CounterpartyName    string
	CounterpartyContact string
	Amount              money.Amount
	Direction           models.Direction
	Description         string

	// DueDate defaults to creation time + the ledger's due-after period.
	DueDate time.Time
}

// CreateManual records a single informal obligation.
func (l *Ledger) CreateManual(ctx context.Context, in ManualDebt) (*models.DebtRecord, error) {
	var problems []string
	if strings.TrimSpace(in.OwnerID) == "" {
		problems = append(problems, "owner is required")
	}
	if strings.TrimSpace(in.CounterpartyName) == "" {
		problems = append(problems, "counterparty name is required")
	}
	if in.Amount <= 0 {
		problems = append(problems, "amount must be greater than zero")
	}
	if !in.Direction.Valid() {
		problems = append(problems, fmt.Sprintf("direction must be %q or %q", models.DirectionLent, models.DirectionBorrowed))
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDebt, strings.Join(problems, "; "))
	}

	now := l.clock()
	due := in.DueDate
	if due.IsZero() {
		due = now.Add(l.dueAfter)
	}
	debt := &models.DebtRecord{
		OwnerID:             in.OwnerID,
		CounterpartyName:    strings.TrimSpace(in.CounterpartyName),
		CounterpartyContact: strings.TrimSpace(in.CounterpartyContact),
		Amount:              in.Amount,
		Direction:           in.Direction,
		Description:         in.Description,
		DueDate:             due.UTC().Truncate(time.Second),
		Status:              models.StatusPending,
		CreatedAt:           now,
	}
	if err := l.store.CreateDebts(ctx, []*models.DebtRecord{debt}); err != nil {
		return nil, fmt.Errorf("failed to record debt: %w", err)
	}

	l.metrics.DebtCreated(string(debt.Direction), metrics.SourceManual)
	l.emit(ctx, EventDebtCreated, debt)
	return debt, nil
}

// Get returns one record.
func (l *Ledger) Get(ctx context.Context, id string) (*models.DebtRecord, error) {
	return l.store.GetDebt(ctx, id)
}

// List returns records matching filter.
func (l *Ledger) List(ctx context.Context, filter models.DebtFilter) ([]*models.DebtRecord, error) {
	return l.store.ListDebts(ctx, filter)
}

// MarkPaid moves a pending debt to paid. A debt that is already paid, even
// by a concurrent caller, yields storage.ErrAlreadyPaid.
func (l *Ledger) MarkPaid(ctx context.Context, id string) (*models.DebtRecord, error) {
	debt, err := l.store.MarkDebtPaid(ctx, id, l.clock())
	if errors.Is(err, storage.ErrAlreadyPaid) {
		l.metrics.MarkPaidConflict()
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	l.metrics.DebtPaid()
	l.emit(ctx, EventDebtPaid, debt)
	return debt, nil
}

// Delete removes a debt.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	debt, err := l.store.GetDebt(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteDebt(ctx, id); err != nil {
		return err
	}

	l.metrics.DebtDeleted()
	l.emit(ctx, EventDebtDeleted, debt)
	return nil
}
