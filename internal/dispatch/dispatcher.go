// Package dispatch partitions the date set into fixed-size batches and
// drives the Rank Oracle under a bounded worker pool.
package dispatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Sumatoshi-tech/rankhist/internal/history"
	"github.com/Sumatoshi-tech/rankhist/internal/oracle"
)

// Defaults for batch partitioning and pool width. One oracle call covers a
// whole batch to amortize the per-process transport overhead.
const (
	DefaultBatchSize = 50
	DefaultWorkers   = 4
)

// Config holds the dispatcher tuning knobs. OnCallDuration, when set, is
// invoked with the wall time of every oracle round trip, failed ones
// included.
type Config struct {
	BatchSize      int
	Workers        int
	OnCallDuration func(time.Duration)
}

// DefaultConfig returns the default dispatcher configuration.
func DefaultConfig() Config {
	return Config{BatchSize: DefaultBatchSize, Workers: DefaultWorkers}
}

// normalized replaces non-positive knobs with defaults.
func (c Config) normalized() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}

	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}

	return c
}

// Result aggregates a dispatch run. A failed batch contributes no points;
// its dates are a documented gap in the final history.
type Result struct {
	Points        []history.Point
	BatchesTotal  int
	BatchesFailed int
}

// batchOutcome is one worker's answer for one batch.
type batchOutcome struct {
	points []history.Point
	err    error
}

// Run dispatches the override items to the oracle in batches. Workers may
// complete out of order; every result keeps its originating date, so the
// assembler's sort is order independent. Batch failures are counted and
// logged, never escalated to sibling batches.
func Run(ctx context.Context, rankOracle oracle.Oracle, items []oracle.BatchOverride, cfg Config) Result {
	cfg = cfg.normalized()

	batches := partition(items, cfg.BatchSize)
	if len(batches) == 0 {
		return Result{}
	}

	jobs := make(chan []oracle.BatchOverride, len(batches))
	outcomes := make(chan batchOutcome, len(batches))

	var wg sync.WaitGroup

	wg.Add(cfg.Workers)

	for i := 0; i < cfg.Workers; i++ {
		go func() {
			defer wg.Done()

			for batch := range jobs {
				outcomes <- callOracle(ctx, rankOracle, batch, cfg.OnCallDuration)
			}
		}()
	}

	for _, batch := range batches {
		jobs <- batch
	}

	close(jobs)
	wg.Wait()
	close(outcomes)

	result := Result{BatchesTotal: len(batches)}

	for outcome := range outcomes {
		if outcome.err != nil {
			result.BatchesFailed++

			log.Printf("dispatch: batch failed: %v", outcome.err)

			continue
		}

		result.Points = append(result.Points, outcome.points...)
	}

	return result
}

// callOracle performs one synchronous oracle round trip for one batch.
func callOracle(
	ctx context.Context,
	rankOracle oracle.Oracle,
	batch []oracle.BatchOverride,
	onDuration func(time.Duration),
) batchOutcome {
	start := time.Now()
	results, err := rankOracle.RankBatch(ctx, batch)

	if onDuration != nil {
		onDuration(time.Since(start))
	}

	if err != nil {
		return batchOutcome{err: err}
	}

	points := make([]history.Point, 0, len(results))
	for _, r := range results {
		points = append(points, history.Point{
			Date:     r.Date,
			Rank:     r.Rank,
			RankName: r.RankName,
			Energy:   r.Details.HarmonicMean,
			Progress: r.Details.ProgressToNextRank,
		})
	}

	return batchOutcome{points: points}
}

// partition splits items into fixed-size chunks, preserving order.
func partition(items []oracle.BatchOverride, size int) [][]oracle.BatchOverride {
	if len(items) == 0 {
		return nil
	}

	batches := make([][]oracle.BatchOverride, 0, (len(items)+size-1)/size)

	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end])
	}

	return batches
}
