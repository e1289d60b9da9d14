package overrides_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rankhist/internal/overrides"
	"github.com/Sumatoshi-tech/rankhist/internal/stats"
)

func buildTimeline(t *testing.T, observations map[string][]stats.Observation) *stats.Timeline {
	t.Helper()

	names := make([]string, 0, len(observations))
	for name := range observations {
		names = append(names, name)
	}

	timeline := stats.NewTimeline(names)

	for name, obs := range observations {
		for _, o := range obs {
			timeline.Add(name, o.Date, o.Score)
		}
	}

	return timeline
}

func TestBuilder_RunningMaximum(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {
			{Date: "2024-01-01", Score: 100},
			{Date: "2024-02-01", Score: 200},
		},
	})

	builder := overrides.NewBuilder(timeline, []string{"A"})

	// Running maximum, not exact date match.
	vector := builder.At("2024-01-15")
	require.Len(t, vector, 1)
	assert.True(t, vector[0].Observed)
	assert.InDelta(t, 100, vector[0].Score, 0.001)

	vector = builder.At("2024-03-01")
	assert.InDelta(t, 200, vector[0].Score, 0.001)
}

func TestBuilder_NotYetObservedSlotIsZero(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {{Date: "2024-02-01", Score: 150}},
	})

	builder := overrides.NewBuilder(timeline, []string{"A"})

	vector := builder.At("2024-01-01")
	assert.False(t, vector[0].Observed)
	assert.Equal(t, []float64{0}, vector.Scores())
}

func TestBuilder_NeverObservedScenarioIsZero(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {{Date: "2024-01-01", Score: 100}},
		"B": nil,
	})

	builder := overrides.NewBuilder(timeline, []string{"A", "B"})

	vector := builder.At("2024-06-01")
	assert.True(t, vector[0].Observed)
	assert.False(t, vector[1].Observed)
	assert.Equal(t, []float64{100, 0}, vector.Scores())
}

func TestBuilder_MaximumWinsOnSameDay(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {
			{Date: "2024-01-01", Score: 100},
			{Date: "2024-01-01", Score: 60},
		},
	})

	builder := overrides.NewBuilder(timeline, []string{"A"})

	vector := builder.At("2024-01-01")
	assert.InDelta(t, 100, vector[0].Score, 0.001)
}

func TestBuilder_BestScoreNeverDecreases(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {
			{Date: "2024-01-01", Score: 200},
			{Date: "2024-02-01", Score: 150},
		},
	})

	builder := overrides.NewBuilder(timeline, []string{"A"})
	vectors := builder.Vectors([]string{"2024-01-01", "2024-02-01", "2024-03-01"})

	for _, vector := range vectors {
		assert.InDelta(t, 200, vector[0].Score, 0.001)
	}
}

func TestBuilder_Deterministic(t *testing.T) {
	t.Parallel()

	observations := map[string][]stats.Observation{
		"A": {
			{Date: "2024-01-03", Score: 90},
			{Date: "2024-01-01", Score: 100},
			{Date: "2024-01-02", Score: 110},
		},
		"B": {{Date: "2024-01-02", Score: 55}},
	}
	dates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	order := []string{"A", "B"}

	first := overrides.NewBuilder(buildTimeline(t, observations), order).Vectors(dates)
	second := overrides.NewBuilder(buildTimeline(t, observations), order).Vectors(dates)

	assert.Equal(t, first, second)
}

func TestBuilder_PositionsFollowCanonicalOrder(t *testing.T) {
	t.Parallel()

	timeline := buildTimeline(t, map[string][]stats.Observation{
		"A": {{Date: "2024-01-01", Score: 1}},
		"B": {{Date: "2024-01-01", Score: 2}},
		"C": {{Date: "2024-01-01", Score: 3}},
	})

	builder := overrides.NewBuilder(timeline, []string{"C", "A", "B"})

	assert.Equal(t, []float64{3, 1, 2}, builder.At("2024-01-01").Scores())
}
