package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/ogulcanaydogan/vix-monitor/pkg/cooldown"
	"github.com/ogulcanaydogan/vix-monitor/pkg/market"
	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
)

// Status is the terminal state of a run.
type Status string

const (
	StatusCooldown       Status = "cooldown"        // Gate closed, nothing fetched
	StatusNoData         Status = "no_data"         // Provider had no reading
	StatusNoAction       Status = "no_action"       // Reading below every threshold
	StatusAlerted        Status = "alerted"         // At least one notifier delivered
	StatusDispatchFailed Status = "dispatch_failed" // Every notifier skipped or failed
)

// Report describes what a single run did.
type Report struct {
	RunID         string           `json:"run_id"`
	StartedAt     time.Time        `json:"started_at"`
	Status        Status           `json:"status"`
	Reading       model.Reading    `json:"reading"`
	Months        float64          `json:"months"`
	CooldownDays  int              `json:"cooldown_days"`
	RemainingDays int              `json:"remaining_days,omitempty"`
	LastPurchase  *time.Time       `json:"last_purchase,omitempty"`
	Outcomes      []alerts.Outcome `json:"outcomes,omitempty"`

	// Err carries the fetch error for StatusNoData, or a persistence error
	// after a successful dispatch.
	Err error `json:"-"`
}

// Monitor sequences one check: cooldown, fetch, evaluate, dispatch, persist.
type Monitor struct {
	provider   market.Provider
	table      *threshold.Table
	gate       *cooldown.Gate
	dispatcher *alerts.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a monitor with the given dependencies.
func New(provider market.Provider, table *threshold.Table, gate *cooldown.Gate, dispatcher *alerts.Dispatcher, logger *slog.Logger) *Monitor {
	return &Monitor{
		provider:   provider,
		table:      table,
		gate:       gate,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Run performs a single pass. It never returns an error: every failure is
// logged and reflected in the report.
func (m *Monitor) Run(ctx context.Context) Report {
	rep := Report{
		RunID:        uuid.New().String(),
		StartedAt:    m.now(),
		CooldownDays: m.gate.WindowDays(),
	}
	log := m.logger.With("run_id", rep.RunID)

	if cd := m.gate.Check(ctx); cd.Active {
		rep.Status = StatusCooldown
		rep.RemainingDays = cd.RemainingDays
		last := cd.Lookup.Date
		rep.LastPurchase = &last
		log.Info("cooldown active", "remaining_days", rep.RemainingDays, "last_purchase", last)
		return rep
	}

	reading, err := m.provider.Fetch(ctx)
	if err == nil && !reading.Valid() {
		err = fmt.Errorf("%w: provider returned %v", market.ErrNoData, reading.Value)
	}
	if err != nil {
		rep.Status = StatusNoData
		rep.Err = err
		log.Error("fetch reading failed", "provider", m.provider.Name(), "error", err)
		return rep
	}
	rep.Reading = reading
	log.Info("reading fetched", "symbol", reading.Symbol, "value", reading.Value)

	rep.Months = m.table.Evaluate(reading.Value)
	if rep.Months == 0 {
		rep.Status = StatusNoAction
		log.Info("below threshold", "value", reading.Value, "lowest", m.table.Lowest())
		return rep
	}

	alert := alerts.Alert{
		ID:           rep.RunID,
		Reading:      reading,
		Months:       rep.Months,
		CooldownDays: rep.CooldownDays,
		GeneratedAt:  rep.StartedAt,
	}
	alert.Strategy = m.table.Describe(alert.Label())

	log.Warn("buy signal triggered", "value", reading.Value, "months", rep.Months)
	result := m.dispatcher.Dispatch(ctx, alert)
	rep.Outcomes = result.Outcomes

	if !result.Delivered() {
		rep.Status = StatusDispatchFailed
		log.Error("no notifications delivered",
			"skipped", result.Count(alerts.OutcomeSkipped),
			"failed", result.Count(alerts.OutcomeFailed),
		)
		return rep
	}

	rep.Status = StatusAlerted
	saved, err := m.gate.RecordPurchase(ctx)
	if err != nil {
		rep.Err = err
		log.Error("persist purchase date failed", "error", err)
		return rep
	}
	rep.LastPurchase = &saved
	rep.RemainingDays = rep.CooldownDays
	log.Info("cooldown started", "days", rep.CooldownDays)
	return rep
}
