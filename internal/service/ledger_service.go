// Package service exposes the settlement engine and debt ledger over Connect.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/reminder"
	"github.com/mmynk/settleup/internal/storage"
)

var errInternal = errors.New("internal error")

// LedgerService implements LedgerServiceHandler.
type LedgerService struct {
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService backed by l.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l, now: time.Now}
}

// requireUser returns the authenticated owner.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return userID, nil
}

// isParticipant checks if the user is in the participants list.
func isParticipant(userID string, participants []models.Participant) bool {
	for _, p := range participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}

// toConnectError maps ledger and storage errors onto Connect codes.
// Internal failures are reported generically; the detail is logged.
func toConnectError(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyPaid):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, ledger.ErrInvalidDebt):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		slog.Error(op+" failed", "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}

// ownedDebt loads a debt and checks it belongs to userID.
func (s *LedgerService) ownedDebt(ctx context.Context, op, id, userID string) (*models.DebtRecord, error) {
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id is required"))
	}
	debt, err := s.ledger.Get(ctx, id)
	if err != nil {
		return nil, toConnectError(op, err)
	}
	if debt.OwnerID != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("debt belongs to another user"))
	}
	return debt, nil
}

// ValidateSplit reports every violation in a split without computing it.
func (s *LedgerService) ValidateSplit(ctx context.Context, req *connect.Request[ValidateSplitRequest]) (*connect.Response[ValidateSplitResponse], error) {
	vs := calculator.ValidateSplit(req.Msg.Split)
	return connect.NewResponse(&ValidateSplitResponse{
		Valid:      len(vs) == 0,
		Violations: vs,
	}), nil
}

// ComputeShares fills in each participant's share.
func (s *LedgerService) ComputeShares(ctx context.Context, req *connect.Request[ComputeSharesRequest]) (*connect.Response[ComputeSharesResponse], error) {
	if vs := calculator.ValidateSplit(req.Msg.Split); len(vs) > 0 {
		return connect.NewResponse(&ComputeSharesResponse{Violations: vs}), nil
	}

	computed := calculator.ComputeShares(req.Msg.Split)
	for _, p := range computed.Participants {
		slog.Debug("Participant share",
			"id", p.ID,
			"paid", p.AmountPaid,
			"share", p.ShareAmount,
		)
	}
	return connect.NewResponse(&ComputeSharesResponse{Split: &computed}), nil
}

// SolveSettlement runs the greedy solver on caller-supplied shares.
func (s *LedgerService) SolveSettlement(ctx context.Context, req *connect.Request[SolveSettlementRequest]) (*connect.Response[SolveSettlementResponse], error) {
	for _, p := range req.Msg.Participants {
		if p.AmountPaid < 0 || p.ShareAmount < 0 {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant amounts must not be negative"))
		}
	}

	settlements, err := calculator.SolveSettlement(req.Msg.Participants)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&SolveSettlementResponse{Settlements: settlements}), nil
}

// SettleSplit validates, computes and settles a split, recording the
// resulting debts in the caller's ledger.
//
// A transfer between two other participants is recorded in the receiving
// participant's ledger, so a caller can create lent records owned by
// another user ID that appears in the same split.
func (s *LedgerService) SettleSplit(ctx context.Context, req *connect.Request[SettleSplitRequest]) (*connect.Response[SettleSplitResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if !isParticipant(userID, req.Msg.Split.Participants) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a participant to settle this split"))
	}

	result, err := s.ledger.Settle(ctx, req.Msg.Split, userID)
	if err != nil {
		return nil, toConnectError("SettleSplit", err)
	}
	if !result.Valid() {
		return connect.NewResponse(&SettleSplitResponse{Violations: result.Violations}), nil
	}

	return connect.NewResponse(&SettleSplitResponse{
		SplitID:     result.SplitID,
		Split:       &result.Spec,
		Settlements: result.Settlements,
		Debts:       result.Debts,
	}), nil
}

// CreateDebt records an informal lend or borrow.
func (s *LedgerService) CreateDebt(ctx context.Context, req *connect.Request[CreateDebtRequest]) (*connect.Response[CreateDebtResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	in := ledger.ManualDebt{
		OwnerID:             userID,
		CounterpartyName:    req.Msg.CounterpartyName,
		CounterpartyContact: req.Msg.CounterpartyContact,
		Amount:              req.Msg.Amount,
		Direction:           req.Msg.Direction,
		Description:         req.Msg.Description,
	}
	if req.Msg.DueDate != nil {
		in.DueDate = *req.Msg.DueDate
	}

	debt, err := s.ledger.CreateManual(ctx, in)
	if err != nil {
		return nil, toConnectError("CreateDebt", err)
	}
	return connect.NewResponse(&CreateDebtResponse{Debt: debt}), nil
}

// GetDebt returns one of the caller's debts.
func (s *LedgerService) GetDebt(ctx context.Context, req *connect.Request[GetDebtRequest]) (*connect.Response[GetDebtResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	debt, err := s.ownedDebt(ctx, "GetDebt", req.Msg.ID, userID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&GetDebtResponse{Debt: debt}), nil
}

// ListDebts lists the caller's debts.
func (s *LedgerService) ListDebts(ctx context.Context, req *connect.Request[ListDebtsRequest]) (*connect.Response[ListDebtsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Direction != "" && !req.Msg.Direction.Valid() {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown direction %q", req.Msg.Direction))
	}

	filter := models.DebtFilter{
		OwnerID:   userID,
		Direction: req.Msg.Direction,
		Status:    req.Msg.Status,
	}
	if req.Msg.OverdueOnly {
		filter.Status = models.StatusPending
	}

	debts, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, toConnectError("ListDebts", err)
	}

	if req.Msg.OverdueOnly {
		now := s.now()
		overdue := debts[:0]
		for _, d := range debts {
			if reminder.IsOverdue(d, now) {
				overdue = append(overdue, d)
			}
		}
		debts = overdue
	}
	if debts == nil {
		debts = []*models.DebtRecord{}
	}
	return connect.NewResponse(&ListDebtsResponse{Debts: debts}), nil
}

// MarkDebtPaid settles one of the caller's pending debts.
func (s *LedgerService) MarkDebtPaid(ctx context.Context, req *connect.Request[MarkDebtPaidRequest]) (*connect.Response[MarkDebtPaidResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDebt(ctx, "MarkDebtPaid", req.Msg.ID, userID); err != nil {
		return nil, err
	}

	debt, err := s.ledger.MarkPaid(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError("MarkDebtPaid", err)
	}
	return connect.NewResponse(&MarkDebtPaidResponse{Debt: debt}), nil
}

// DeleteDebt removes one of the caller's debts.
func (s *LedgerService) DeleteDebt(ctx context.Context, req *connect.Request[DeleteDebtRequest]) (*connect.Response[DeleteDebtResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedDebt(ctx, "DeleteDebt", req.Msg.ID, userID); err != nil {
		return nil, err
	}

	if err := s.ledger.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError("DeleteDebt", err)
	}
	return connect.NewResponse(&DeleteDebtResponse{}), nil
}

// ComposeReminder renders the reminder text for one of the caller's debts.
func (s *LedgerService) ComposeReminder(ctx context.Context, req *connect.Request[ComposeReminderRequest]) (*connect.Response[ComposeReminderResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	debt, err := s.ownedDebt(ctx, "ComposeReminder", req.Msg.ID, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	return connect.NewResponse(&ComposeReminderResponse{
		Message:     reminder.Compose(debt, now),
		DaysOverdue: max(reminder.DaysOverdue(debt.DueDate, now), 0),
	}), nil
}

// GetSummary totals the caller's pending debts.
func (s *LedgerService) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	summary, err := s.ledger.Summary(ctx, userID, s.now())
	if err != nil {
		return nil, toConnectError("GetSummary", err)
	}
	return connect.NewResponse(&GetSummaryResponse{Summary: summary}), nil
}

var _ LedgerServiceHandler = (*LedgerService)(nil)
