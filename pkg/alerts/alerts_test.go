package alerts_test

import (
	"time"

	"github.com/ogulcanaydogan/vix-monitor/pkg/alerts"
	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
	"github.com/ogulcanaydogan/vix-monitor/pkg/threshold"
)

func testAlert() alerts.Alert {
	return alerts.Alert{
		ID:           "5b1f3c2e-1111-4a2b-9c3d-000000000001",
		Reading:      model.Reading{Symbol: "^VIX", Value: 32.0},
		Months:       1.0,
		CooldownDays: 30,
		Strategy:     threshold.MustDefault().Describe("VIX"),
		GeneratedAt:  time.Date(2026, 4, 7, 15, 4, 5, 0, time.UTC),
	}
}
