package service

import (
	"time"

	"github.com/mmynk/settleup/internal/calculator"
	"github.com/mmynk/settleup/internal/ledger"
	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

type ValidateSplitRequest struct {
	Split models.SplitSpecification `json:"split"`
}

type ValidateSplitResponse struct {
	Valid      bool                   `json:"valid"`
	Violations []calculator.Violation `json:"violations,omitempty"`
}

type ComputeSharesRequest struct {
	Split models.SplitSpecification `json:"split"`
}

// ComputeSharesResponse carries the split with shares filled in, or the
// violations that prevented it.
type ComputeSharesResponse struct {
	Split      *models.SplitSpecification `json:"split,omitempty"`
	Violations []calculator.Violation     `json:"violations,omitempty"`
}

// SolveSettlementRequest takes participants whose shares are already known.
type SolveSettlementRequest struct {
	Participants []models.Participant `json:"participants"`
}

type SolveSettlementResponse struct {
	Settlements []models.Settlement `json:"settlements"`
}

type SettleSplitRequest struct {
	Split models.SplitSpecification `json:"split"`
}

type SettleSplitResponse struct {
	SplitID     string                     `json:"split_id,omitempty"`
	Split       *models.SplitSpecification `json:"split,omitempty"`
	Violations  []calculator.Violation     `json:"violations,omitempty"`
	Settlements []models.Settlement        `json:"settlements,omitempty"`
	Debts       []*models.DebtRecord       `json:"debts,omitempty"`
}

type CreateDebtRequest struct {
	CounterpartyName    string           `json:"counterparty_name"`
	CounterpartyContact string           `json:"counterparty_contact"`
	Amount              money.Amount     `json:"amount"`
	Direction           models.Direction `json:"direction"`
	Description         string           `json:"description"`
	DueDate             *time.Time       `json:"due_date,omitempty"`
}

type CreateDebtResponse struct {
	Debt *models.DebtRecord `json:"debt"`
}

type GetDebtRequest struct {
	ID string `json:"id"`
}

type GetDebtResponse struct {
	Debt *models.DebtRecord `json:"debt"`
}

// ListDebtsRequest filters the caller's debts. Empty fields match everything.
type ListDebtsRequest struct {
	Direction   models.Direction  `json:"direction,omitempty"`
	Status      models.DebtStatus `json:"status,omitempty"`
	OverdueOnly bool              `json:"overdue_only,omitempty"`
}

type ListDebtsResponse struct {
	Debts []*models.DebtRecord `json:"debts"`
}

type MarkDebtPaidRequest struct {
	ID string `json:"id"`
}

type MarkDebtPaidResponse struct {
	Debt *models.DebtRecord `json:"debt"`
}

type DeleteDebtRequest struct {
	ID string `json:"id"`
}

type DeleteDebtResponse struct{}

type ComposeReminderRequest struct {
	ID string `json:"id"`
}

type ComposeReminderResponse struct {
	Message     string `json:"message"`
	DaysOverdue int    `json:"days_overdue"`
}

type GetSummaryRequest struct{}

type GetSummaryResponse struct {
	Summary *ledger.Summary `json:"summary"`
}
