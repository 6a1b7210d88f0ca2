package market

import (
	"context"
	"errors"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

// ErrNoData signals that the provider answered but had no usable value.
var ErrNoData = errors.New("no market data")

// Provider fetches the most recent closing value of an instrument.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Fetch returns the latest reading. A missing value is reported as an
	// error wrapping ErrNoData; transport failures are returned as-is.
	Fetch(ctx context.Context) (model.Reading, error)
}

// Static returns a fixed reading, for tests.
type Static struct {
	Reading model.Reading
	Err     error
}

func (s *Static) Name() string { return "static" }

func (s *Static) Fetch(_ context.Context) (model.Reading, error) {
	if s.Err != nil {
		return model.Reading{}, s.Err
	}
	return s.Reading, nil
}
