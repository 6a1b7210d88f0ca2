package alerts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

// ErrNotConfigured is returned by a notifier whose credentials or endpoint
// are missing. The dispatcher treats it as a skip rather than a failure.
var ErrNotConfigured = errors.New("notifier not configured")

// Alert is a buy signal ready for delivery.
type Alert struct {
	ID           string        `json:"id"`
	Reading      model.Reading `json:"reading"`
	Months       float64       `json:"months"`
	CooldownDays int           `json:"cooldown_days"`
	Strategy     []string      `json:"strategy,omitempty"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// Label returns the display name of the instrument, e.g. "VIX" for "^VIX".
func (a Alert) Label() string {
	label := strings.TrimPrefix(a.Reading.Symbol, "^")
	if label == "" {
		return "VIX"
	}
	return label
}

// Notifier sends alerts to external systems.
type Notifier interface {
	// Name returns the notifier identifier.
	Name() string

	// Send delivers an alert. A notifier lacking configuration returns an
	// error wrapping ErrNotConfigured without attempting any I/O.
	Send(ctx context.Context, alert Alert) error
}
