// Package stats mines a directory of per-session score logs into a
// per-scenario, dated score timeline.
package stats

import (
	"sort"
)

// Observation is a single dated score for one scenario. Dates use the
// YYYY-MM-DD form, so lexicographic order equals chronological order.
type Observation struct {
	Date  string
	Score float64
}

// Timeline aggregates observations per scenario and tracks the set of
// distinct dates seen across all scenarios. It is built once per run by the
// Scanner and read-only afterwards.
type Timeline struct {
	observations map[string][]Observation
	dates        map[string]struct{}
	sorted       bool
}

// NewTimeline creates an empty timeline for the given target scenarios.
// Scenarios without observations still get an entry so queries can
// distinguish "never played" from "unknown scenario".
func NewTimeline(scenarios []string) *Timeline {
	observations := make(map[string][]Observation, len(scenarios))
	for _, name := range scenarios {
		observations[name] = nil
	}

	return &Timeline{
		observations: observations,
		dates:        make(map[string]struct{}),
	}
}

// Add records one observation. Duplicate dates for the same scenario are all
// retained; the best-score query resolves ties by taking the maximum.
func (t *Timeline) Add(scenario, date string, score float64) {
	t.observations[scenario] = append(t.observations[scenario], Observation{Date: date, Score: score})
	t.dates[date] = struct{}{}
	t.sorted = false
}

// AddDate records a date without a score. Used when a session file names a
// target scenario on a parseable date but its score line is missing.
func (t *Timeline) AddDate(date string) {
	t.dates[date] = struct{}{}
}

// Observations returns the observations for a scenario sorted ascending by
// date. The second return reports whether the scenario is tracked at all.
func (t *Timeline) Observations(scenario string) ([]Observation, bool) {
	obs, ok := t.observations[scenario]
	if !ok {
		return nil, false
	}

	t.ensureSorted()

	return obs, true
}

// Dates returns the distinct observation dates sorted ascending.
func (t *Timeline) Dates() []string {
	dates := make([]string, 0, len(t.dates))
	for date := range t.dates {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	return dates
}

// ObservationCount returns the total number of recorded observations.
func (t *Timeline) ObservationCount() int {
	total := 0
	for _, obs := range t.observations {
		total += len(obs)
	}

	return total
}

// ensureSorted sorts every scenario's observations by date. Sorting is lazy:
// insertion order depends on filesystem iteration, which carries no
// ordering guarantee.
func (t *Timeline) ensureSorted() {
	if t.sorted {
		return
	}

	for _, obs := range t.observations {
		sort.SliceStable(obs, func(i, j int) bool {
			return obs[i].Date < obs[j].Date
		})
	}

	t.sorted = true
}
