// Package metrics holds the Prometheus collectors for the settlement engine
// and debt ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "settleup"

// Metrics groups every collector. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	SplitsSettled     *prometheus.CounterVec
	SettlementsPerRun prometheus.Histogram
	DebtsCreated      *prometheus.CounterVec
	DebtsPaid         prometheus.Counter
	DebtsDeleted      prometheus.Counter
	MarkPaidConflicts prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SplitsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_total",
			Help:      "Split settlement runs by outcome (settled, invalid, internal_error).",
		}, []string{"outcome"}),
		SettlementsPerRun: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlements_per_split",
			Help:      "Number of transfers emitted per settled split.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		DebtsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_created_total",
			Help:      "Debt records created, by direction and source (settlement, manual).",
		}, []string{"direction", "source"}),
		DebtsPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_paid_total",
			Help:      "Debt records marked paid.",
		}),
		DebtsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debts_deleted_total",
			Help:      "Debt records deleted.",
		}),
		MarkPaidConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mark_paid_conflicts_total",
			Help:      "Mark-paid requests that found the debt already settled.",
		}),
	}
	reg.MustRegister(
		m.SplitsSettled,
		m.SettlementsPerRun,
		m.DebtsCreated,
		m.DebtsPaid,
		m.DebtsDeleted,
		m.MarkPaidConflicts,
	)
	return m
}

// Split outcomes.
const (
	OutcomeSettled  = "settled"
	OutcomeInvalid  = "invalid"
	OutcomeInternal = "internal_error"
)

// Debt sources.
const (
	SourceSettlement = "settlement"
	SourceManual     = "manual"
)

// ObserveSplit records one settlement run.
func (m *Metrics) ObserveSplit(outcome string, settlements int) {
	if m == nil {
		return
	}
	m.SplitsSettled.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSettled {
		m.SettlementsPerRun.Observe(float64(settlements))
	}
}

// DebtCreated counts a new record.
func (m *Metrics) DebtCreated(direction, source string) {
	if m == nil {
		return
	}
	m.DebtsCreated.WithLabelValues(direction, source).Inc()
}

// DebtPaid counts a pending → paid transition.
func (m *Metrics) DebtPaid() {
	if m == nil {
		return
	}
	m.DebtsPaid.Inc()
}

// DebtDeleted counts a deletion.
func (m *Metrics) DebtDeleted() {
	if m == nil {
		return
	}
	m.DebtsDeleted.Inc()
}

// MarkPaidConflict counts a losing mark-paid.
func (m *Metrics) MarkPaidConflict() {
	if m == nil {
		return
	}
	m.MarkPaidConflicts.Inc()
}
