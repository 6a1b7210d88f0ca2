package cooldown

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
	"github.com/ogulcanaydogan/vix-monitor/pkg/storage"
)

// DefaultWindowDays is the number of whole days alerts stay suppressed
// after a successful dispatch.
const DefaultWindowDays = 30

// LookupState describes what was found in the state store.
type LookupState string

const (
	Found   LookupState = "found"
	Absent  LookupState = "absent"
	Corrupt LookupState = "corrupt" // Record present but unreadable
)

// Lookup is the explicit result of reading the last-purchase record.
type Lookup struct {
	State LookupState
	Date  time.Time
	Err   error // Set when State is Corrupt or the store failed
}

// Gate decides whether alerting is currently suppressed.
type Gate struct {
	store  storage.Storage
	window int
	now    func() time.Time
	logger *slog.Logger
}

// Option customises a Gate.
type Option func(*Gate)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// NewGate creates a cooldown gate over store with a window in whole days.
func NewGate(store storage.Storage, windowDays int, logger *slog.Logger, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		window: windowDays,
		now:    time.Now,
		logger: logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WindowDays returns the configured cooldown length.
func (g *Gate) WindowDays() int { return g.window }

// Lookup reads the stored record and classifies the result. Store errors
// other than a missing record are reported as Corrupt so callers fail open.
func (g *Gate) Lookup(ctx context.Context) Lookup {
	rec, err := g.store.Load(ctx)
	switch {
	case err == nil:
		return Lookup{State: Found, Date: rec.Date}
	case errors.Is(err, storage.ErrNoRecord):
		return Lookup{State: Absent}
	default:
		return Lookup{State: Corrupt, Err: err}
	}
}

// Status is a point-in-time view of the gate, taken from one store read
// and one clock read.
type Status struct {
	Lookup        Lookup
	ElapsedDays   int
	Active        bool
	RemainingDays int
}

// Check reads the store once and reports whether alerting is suppressed.
// Unreadable records are logged and treated as absent.
func (g *Gate) Check(ctx context.Context) Status {
	st := Status{Lookup: g.Lookup(ctx)}
	if st.Lookup.State == Corrupt {
		g.logger.Warn("ignoring unreadable purchase record", "error", st.Lookup.Err)
	}
	if st.Lookup.State != Found {
		return st
	}

	st.ElapsedDays = model.ElapsedDays(st.Lookup.Date, g.now())
	if st.ElapsedDays < g.window {
		st.Active = true
		st.RemainingDays = g.window - st.ElapsedDays
	}
	return st
}

// LastPurchase returns the stored timestamp, or false when no usable
// record exists.
func (g *Gate) LastPurchase(ctx context.Context) (time.Time, bool) {
	st := g.Check(ctx)
	if st.Lookup.State != Found {
		return time.Time{}, false
	}
	return st.Lookup.Date, true
}

// ElapsedDays returns whole days since the last purchase, or false when
// there is none.
func (g *Gate) ElapsedDays(ctx context.Context) (int, bool) {
	st := g.Check(ctx)
	return st.ElapsedDays, st.Lookup.State == Found
}

// IsActive reports whether fewer than the window's whole days have passed
// since the last purchase.
func (g *Gate) IsActive(ctx context.Context) bool {
	return g.Check(ctx).Active
}

// RemainingDays returns the days left in the cooldown, or zero when the
// gate is open.
func (g *Gate) RemainingDays(ctx context.Context) int {
	return g.Check(ctx).RemainingDays
}

// RecordPurchase stores the current time as the last purchase.
func (g *Gate) RecordPurchase(ctx context.Context) (time.Time, error) {
	now := g.now()
	if err := g.store.Save(ctx, model.PurchaseRecord{Date: now}); err != nil {
		return time.Time{}, fmt.Errorf("record purchase: %w", err)
	}
	return now, nil
}
