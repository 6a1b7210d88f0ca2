package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

var (
	// ErrNoRecord is returned by Load when no purchase has been recorded yet.
	ErrNoRecord = errors.New("no purchase record")

	// ErrCorrupt is returned by Load when a record exists but cannot be parsed.
	ErrCorrupt = errors.New("purchase record unreadable")
)

// Storage persists the single last-purchase record.
type Storage interface {
	// Load returns the stored record, ErrNoRecord if none exists, or an
	// error wrapping ErrCorrupt if the stored value cannot be parsed.
	Load(ctx context.Context) (model.PurchaseRecord, error)

	// Save replaces the stored record.
	Save(ctx context.Context, record model.PurchaseRecord) error

	// Close releases resources.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open creates the storage backend selected by driver.
func Open(driver, path string) (Storage, error) {
	switch strings.ToLower(driver) {
	case "", DriverFile:
		return NewFile(path), nil
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// naiveISO matches timestamps written without a zone offset, such as
// "2025-04-07T09:30:12.481516".
const naiveISO = "2006-01-02T15:04:05.999999999"

// formatTime is the canonical encoding for stored timestamps.
func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// parseTime accepts RFC 3339 timestamps, zone-less ISO-8601 timestamps and
// bare dates. Zone-less values are interpreted in local time.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(naiveISO, s, time.Local)
	if err != nil {
		t, err = time.ParseInLocation(time.DateOnly, s, time.Local)
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: parse date %q: %v", ErrCorrupt, s, err)
	}
	return t, nil
}
