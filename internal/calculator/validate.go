package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/money"
)

// ViolationCode identifies a class of validation failure.
type ViolationCode string

const (
	CodeDescriptionRequired ViolationCode = "description_required"
	CodeTotalNotPositive    ViolationCode = "total_not_positive"
	CodeTooFewParticipants  ViolationCode = "too_few_participants"
	CodeParticipantID       ViolationCode = "participant_id"
	CodeNameRequired        ViolationCode = "name_required"
	CodeContactRequired     ViolationCode = "contact_required"
	CodeNegativeAmount      ViolationCode = "negative_amount"
	CodePaidMismatch        ViolationCode = "paid_mismatch"
	CodeUnknownStrategy     ViolationCode = "unknown_strategy"
	CodePercentMismatch     ViolationCode = "percent_mismatch"
	CodeNegativePercent     ViolationCode = "negative_percent"
	CodeShareMismatch       ViolationCode = "share_mismatch"
	CodeAmountTooLarge      ViolationCode = "amount_too_large"
)

// MinParticipants is the smallest split the engine accepts.
const MinParticipants = 2

// PercentTolerance is how far the percentage total may drift from 100.
// Amount comparisons are exact.
var PercentTolerance = decimal.RequireFromString("0.01")

var oneHundred = decimal.NewFromInt(100)

// Violation describes one user-correctable problem with a split.
type Violation struct {
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// ValidationError wraps a non-empty list of violations.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "invalid split: " + strings.Join(msgs, "; ")
}

// ValidateSplit checks spec and returns every violation found, in reporting
// order: description, total, participants, payments, strategy. A nil result
// means the split is valid.
func ValidateSplit(spec models.SplitSpecification) []Violation {
	var vs []Violation
	add := func(code ViolationCode, format string, args ...any) {
		vs = append(vs, Violation{Code: code, Message: fmt.Sprintf(format, args...)})
	}

	// 1. Description.
	if strings.TrimSpace(spec.Description) == "" {
		add(CodeDescriptionRequired, "description is required")
	}

	// 2. Total.
	if spec.TotalAmount <= 0 {
		add(CodeTotalNotPositive, "total amount must be greater than zero")
	}
	if spec.TotalAmount > money.MaxAmount {
		add(CodeAmountTooLarge, "total amount must not exceed %s", money.MaxAmount)
	}

	// 3. Participant structure and identity.
	if len(spec.Participants) < MinParticipants {
		add(CodeTooFewParticipants, "at least %d participants are required", MinParticipants)
	}
	seen := make(map[string]bool, len(spec.Participants))
	var missingID, duplicateID, missingName, missingContact, negative, tooLarge bool
	for _, p := range spec.Participants {
		id := strings.TrimSpace(p.ID)
		switch {
		case id == "":
			missingID = true
		case seen[id]:
			duplicateID = true
		}
		seen[id] = true
		if strings.TrimSpace(p.Name) == "" {
			missingName = true
		}
		if strings.TrimSpace(p.Contact) == "" {
			missingContact = true
		}
		if p.AmountPaid < 0 || p.ShareAmount < 0 {
			negative = true
		}
		if p.AmountPaid > money.MaxAmount || p.ShareAmount > money.MaxAmount {
			tooLarge = true
		}
	}
	if missingID {
		add(CodeParticipantID, "all participant ids are required")
	}
	if duplicateID {
		add(CodeParticipantID, "participant ids must be unique")
	}
	if missingName {
		add(CodeNameRequired, "all participant names are required")
	}
	if missingContact {
		add(CodeContactRequired, "all participant contacts are required")
	}
	if negative {
		add(CodeNegativeAmount, "participant amounts must not be negative")
	}
	if tooLarge {
		add(CodeAmountTooLarge, "participant amounts must not exceed %s", money.MaxAmount)
	}

	// 4. Payments cover the total exactly.
	paid, ok := sumOf(spec.Participants, func(p models.Participant) money.Amount { return p.AmountPaid })
	switch {
	case !ok:
		add(CodePaidMismatch, "total paid exceeds %s and cannot equal expense amount (%s)", money.MaxAmount, spec.TotalAmount)
	case paid != spec.TotalAmount:
		add(CodePaidMismatch, "total paid (%s) must equal expense amount (%s)", paid, spec.TotalAmount)
	}

	// 5. Strategy-specific.
	switch spec.Strategy {
	case models.StrategyEqual:
	case models.StrategyPercentage:
		sum := decimal.Zero
		negativePct := false
		for _, p := range spec.Participants {
			if p.SharePercent.IsNegative() {
				negativePct = true
			}
			sum = sum.Add(p.SharePercent)
		}
		if negativePct {
			add(CodeNegativePercent, "percentages must not be negative")
		}
		if sum.Sub(oneHundred).Abs().GreaterThan(PercentTolerance) {
			add(CodePercentMismatch, "percentages must sum to 100%%")
		}
	case models.StrategyCustom:
		shares, ok := sumOf(spec.Participants, func(p models.Participant) money.Amount { return p.ShareAmount })
		switch {
		case !ok:
			add(CodeShareMismatch, "share amounts exceed %s and cannot equal total expense (%s)", money.MaxAmount, spec.TotalAmount)
		case shares != spec.TotalAmount:
			add(CodeShareMismatch, "share amounts must equal total expense (%s ≠ %s)", shares, spec.TotalAmount)
		}
	default:
		add(CodeUnknownStrategy, "unknown split strategy %q", spec.Strategy)
	}

	return vs
}

// sumOf adds field over participants. It reports false if any partial sum
// leaves the money range.
func sumOf(participants []models.Participant, field func(models.Participant) money.Amount) (money.Amount, bool) {
	var total money.Amount
	for _, p := range participants {
		var ok bool
		if total, ok = money.Add(total, field(p)); !ok {
			return 0, false
		}
	}
	return total, true
}

// Validate is ValidateSplit returning a *ValidationError when there are
// violations.
func Validate(spec models.SplitSpecification) error {
	if vs := ValidateSplit(spec); len(vs) > 0 {
		return &ValidationError{Violations: vs}
	}
	return nil
}
