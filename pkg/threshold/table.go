package threshold

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ogulcanaydogan/vix-monitor/pkg/model"
)

// Default returns the built-in VIX buying schedule.
func Default() []model.Threshold {
	return []model.Threshold{
		{Min: 25, Months: 0.5},
		{Min: 30, Months: 1.0},
		{Min: 40, Months: 2.0},
		{Min: 50, Months: 3.0},
	}
}

// Table is an immutable step function from index level to purchase
// multiplier. Entries are held in descending order of Min.
type Table struct {
	steps []model.Threshold
}

// New validates the thresholds and returns a table sorted once, highest
// minimum first. The input slice is not modified.
func New(thresholds []model.Threshold) (*Table, error) {
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("threshold table is empty")
	}

	steps := make([]model.Threshold, len(thresholds))
	copy(steps, thresholds)

	seen := make(map[float64]struct{}, len(steps))
	for _, s := range steps {
		if math.IsNaN(s.Min) || math.IsInf(s.Min, 0) {
			return nil, fmt.Errorf("threshold minimum must be finite, got %v", s.Min)
		}
		if math.IsNaN(s.Months) || math.IsInf(s.Months, 0) || s.Months <= 0 {
			return nil, fmt.Errorf("threshold %v: months must be positive and finite, got %v", s.Min, s.Months)
		}
		if _, dup := seen[s.Min]; dup {
			return nil, fmt.Errorf("duplicate threshold minimum %v", s.Min)
		}
		seen[s.Min] = struct{}{}
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Min > steps[j].Min })
	return &Table{steps: steps}, nil
}

// MustDefault returns a table over Default. It panics only if the built-in
// schedule is invalid.
func MustDefault() *Table {
	t, err := New(Default())
	if err != nil {
		panic(err)
	}
	return t
}

// Evaluate returns the multiplier of the highest threshold not exceeding
// reading, or zero when the reading is below every threshold.
func (t *Table) Evaluate(reading float64) float64 {
	if math.IsNaN(reading) {
		return 0
	}
	for _, s := range t.steps {
		if reading >= s.Min {
			return s.Months
		}
	}
	return 0
}

// Steps returns the thresholds in ascending order of Min.
func (t *Table) Steps() []model.Threshold {
	out := make([]model.Threshold, len(t.steps))
	for i, s := range t.steps {
		out[len(t.steps)-1-i] = s
	}
	return out
}

// Lowest returns the smallest minimum in the table.
func (t *Table) Lowest() float64 {
	return t.steps[len(t.steps)-1].Min
}

// Describe renders one line per band, lowest first, e.g. "VIX 25-29: Buy 0.5 months".
func (t *Table) Describe(label string) []string {
	asc := t.Steps()
	lines := make([]string, 0, len(asc))
	for i, s := range asc {
		var band string
		if i == len(asc)-1 {
			band = fmt.Sprintf("%s %s+", label, formatLevel(s.Min))
		} else {
			upper := asc[i+1].Min
			top := math.Ceil(upper) - 1
			if top < s.Min {
				band = fmt.Sprintf("%s %s-%s", label, formatLevel(s.Min), formatLevel(upper))
			} else {
				band = fmt.Sprintf("%s %s-%s", label, formatLevel(s.Min), formatLevel(top))
			}
		}
		lines = append(lines, fmt.Sprintf("%s: Buy %s %s", band, formatLevel(s.Months), monthWord(s.Months)))
	}
	return lines
}

// FormatMonths renders a multiplier the way alerts display it: at least one
// decimal place, so 1 prints as "1.0" and 0.25 as "0.25".
func FormatMonths(m float64) string {
	s := fmt.Sprintf("%g", m)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatLevel(v float64) string {
	return fmt.Sprintf("%g", v)
}

func monthWord(m float64) string {
	if m == 1 {
		return "month"
	}
	return "months"
}
