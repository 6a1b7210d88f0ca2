package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// OutcomeStatus is the result of one delivery attempt.
type OutcomeStatus string

const (
	OutcomeDelivered OutcomeStatus = "delivered"
	OutcomeSkipped   OutcomeStatus = "skipped" // Notifier not configured
	OutcomeFailed    OutcomeStatus = "failed"  // Transport or remote error
)

// Outcome records what happened for a single notifier.
type Outcome struct {
	Notifier string        `json:"notifier"`
	Status   OutcomeStatus `json:"status"`
	Err      error         `json:"-"`
}

// Reason returns the failure or skip reason, or "" when delivered.
func (o Outcome) Reason() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// Result aggregates the outcomes of one dispatch.
type Result struct {
	Outcomes []Outcome `json:"outcomes"`
}

// Delivered reports whether at least one notifier succeeded.
func (r Result) Delivered() bool {
	for _, o := range r.Outcomes {
		if o.Status == OutcomeDelivered {
			return true
		}
	}
	return false
}

// Count returns the number of outcomes with the given status.
func (r Result) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Dispatcher fans an alert out to every notifier, one after another.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
}

// NewDispatcher creates a dispatcher over notifiers, attempted in order.
func NewDispatcher(notifiers []Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// Notifiers returns the names of the configured notifiers in order.
func (d *Dispatcher) Notifiers() []string {
	names := make([]string, len(d.notifiers))
	for i, n := range d.notifiers {
		names[i] = n.Name()
	}
	return names
}

// Dispatch attempts delivery through every notifier. A failing or
// unconfigured notifier never prevents the others from being tried.
func (d *Dispatcher) Dispatch(ctx context.Context, alert Alert) Result {
	result := Result{Outcomes: make([]Outcome, 0, len(d.notifiers))}

	for _, n := range d.notifiers {
		o := d.attempt(ctx, n, alert)
		result.Outcomes = append(result.Outcomes, o)

		switch o.Status {
		case OutcomeDelivered:
			d.logger.Info("alert delivered", "notifier", o.Notifier, "alert_id", alert.ID)
		case OutcomeSkipped:
			d.logger.Warn("notifier skipped", "notifier", o.Notifier, "reason", o.Reason())
		case OutcomeFailed:
			d.logger.Error("send alert failed", "notifier", o.Notifier, "alert_id", alert.ID, "error", o.Err)
		}
	}

	return result
}

func (d *Dispatcher) attempt(ctx context.Context, n Notifier, alert Alert) (o Outcome) {
	o.Notifier = n.Name()
	defer func() {
		if r := recover(); r != nil {
			o.Status = OutcomeFailed
			o.Err = fmt.Errorf("notifier panicked: %v", r)
			d.logger.Error("notifier panic", "notifier", o.Notifier, "panic", r)
		}
	}()

	err := n.Send(ctx, alert)
	switch {
	case err == nil:
		o.Status = OutcomeDelivered
	case errors.Is(err, ErrNotConfigured):
		o.Status = OutcomeSkipped
		o.Err = err
	default:
		o.Status = OutcomeFailed
		o.Err = err
	}
	return o
}
