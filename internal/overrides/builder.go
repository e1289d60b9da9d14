// Package overrides computes per-date score override vectors from a
// scenario timeline. The Rank Oracle identifies scenarios positionally, so
// a vector's slots follow the caller-supplied canonical scenario order.
package overrides

import (
	"github.com/Sumatoshi-tech/rankhist/internal/stats"
)

// Slot is one position in an override vector. Observed is false when the
// scenario has no observation on or before the slot's date; the wire
// protocol collapses that case to a zero score, but callers keep the
// distinction.
type Slot struct {
	Score    float64
	Observed bool
}

// Vector holds one slot per scenario in canonical order.
type Vector []Slot

// Scores flattens the vector to the wire form. Unobserved slots become 0,
// matching the oracle's batch protocol.
func (v Vector) Scores() []float64 {
	scores := make([]float64, len(v))
	for i, slot := range v {
		if slot.Observed {
			scores[i] = slot.Score
		}
	}

	return scores
}

// cursor tracks the running maximum over one scenario's sorted timeline.
type cursor struct {
	observations []stats.Observation
	next         int
	best         float64
	observed     bool
}

// advance folds in every observation dated on or before date.
func (c *cursor) advance(date string) {
	for c.next < len(c.observations) && c.observations[c.next].Date <= date {
		if !c.observed || c.observations[c.next].Score > c.best {
			c.best = c.observations[c.next].Score
		}

		c.observed = true
		c.next++
	}
}

// Builder produces override vectors for an ascending sequence of dates.
// Each scenario's sorted timeline is walked exactly once with a running
// maximum, so building vectors for all dates costs O(observations + dates)
// per scenario.
type Builder struct {
	order   []string
	cursors []*cursor
}

// NewBuilder snapshots the timeline for the given canonical scenario order.
// Scenarios absent from the timeline yield permanently unobserved slots.
func NewBuilder(timeline *stats.Timeline, order []string) *Builder {
	cursors := make([]*cursor, len(order))

	for i, name := range order {
		observations, _ := timeline.Observations(name)
		cursors[i] = &cursor{observations: observations}
	}

	return &Builder{order: order, cursors: cursors}
}

// Order returns the canonical scenario order the builder was created with.
func (b *Builder) Order() []string {
	return b.order
}

// At returns the override vector for the given date. Dates must be queried
// in ascending order; the sorted DateSet from the scanner satisfies this.
func (b *Builder) At(date string) Vector {
	vector := make(Vector, len(b.cursors))

	for i, c := range b.cursors {
		c.advance(date)
		vector[i] = Slot{Score: c.best, Observed: c.observed}
	}

	return vector
}

// Vectors builds one vector per date. Dates must already be sorted
// ascending.
func (b *Builder) Vectors(dates []string) []Vector {
	vectors := make([]Vector, len(dates))
	for i, date := range dates {
		vectors[i] = b.At(date)
	}

	return vectors
}
