// Package history assembles oracle answers into a chronologically ordered
// rank history and serializes it.
package history

import (
	"sort"
)

// Point is the reconstructed rank state for one date. Energy is nil when
// the benchmark has no harmonic-mean energy metric.
type Point struct {
	Date     string   `json:"date" yaml:"date"`
	Rank     int      `json:"rank" yaml:"rank"`
	RankName string   `json:"rankName" yaml:"rankName"`
	Energy   *float64 `json:"energy" yaml:"energy"`
	Progress float64  `json:"progress" yaml:"progress"`
}

// RankValue flattens a point to a single plottable number: the rank index
// plus progress toward the next rank. Progress is clamped below 1 so a
// nearly-complete rank never renders as the next one; only the top rank may
// exceed its own index.
func (p Point) RankValue(maxRankIndex int) float64 {
	progress := p.Progress
	if p.Rank < maxRankIndex && progress > maxProgressBelowTop {
		progress = maxProgressBelowTop
	}

	return float64(p.Rank) + progress
}

// maxProgressBelowTop clamps progress for every rank but the highest.
const maxProgressBelowTop = 0.99

// HasEnergy reports whether any point carries a positive energy value.
// Benchmarks without energy fall back to rank-index rendering.
func HasEnergy(points []Point) bool {
	for _, point := range points {
		if point.Energy != nil && *point.Energy > 0 {
			return true
		}
	}

	return false
}

// Assemble sorts points ascending by date and returns them as a new slice.
// Batch partitioning guarantees date uniqueness per run, so a stable sort
// is all the reassembly requires.
func Assemble(points []Point) []Point {
	assembled := make([]Point, len(points))
	copy(assembled, points)

	sort.SliceStable(assembled, func(i, j int) bool {
		return assembled[i].Date < assembled[j].Date
	})

	return assembled
}
