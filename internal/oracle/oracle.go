// Package oracle reaches the external rank-calculator process over its
// line-oriented JSON protocol: one request object on stdin, one response
// object on stdout (or, as a fallback, stderr) per process invocation.
package oracle

import (
	"context"
	"errors"
)

// Sentinel errors shared by oracle implementations.
var (
	// ErrOracleFailure is returned when the oracle reports success: false.
	ErrOracleFailure = errors.New("oracle reported failure")
	// ErrInvalidResponse is returned when the oracle's output is not a
	// parseable, schema-valid response object.
	ErrInvalidResponse = errors.New("invalid oracle response")
)

// BatchOverride is one dated score vector inside a batch request.
type BatchOverride struct {
	Date           string    `json:"date"`
	ScoreOverrides []float64 `json:"scoreOverrides"`
}

// ResultDetails carries the optional supporting metrics of a rank result.
type ResultDetails struct {
	HarmonicMean       *float64 `json:"harmonicMean,omitempty"`
	ProgressToNextRank float64  `json:"progressToNextRank,omitempty"`
}

// BatchResult is the oracle's answer for one date of a batch.
type BatchResult struct {
	Date     string        `json:"date"`
	Rank     int           `json:"rank"`
	RankName string        `json:"rankName"`
	Details  ResultDetails `json:"details"`
}

// Rank describes one rung of a benchmark's rank ladder.
type Rank struct {
	Name string `json:"name"`
}

// Structure is the benchmark layout fetched once up front: the canonical
// scenario order the oracle expects overrides in, and the display names of
// the rank ladder.
type Structure struct {
	Scenarios []string
	Ranks     []Rank
}

// Oracle answers rank queries for batches of dated score vectors. Both
// calls are single synchronous round trips, bounded by ctx.
type Oracle interface {
	RankBatch(ctx context.Context, batch []BatchOverride) ([]BatchResult, error)
	FetchStructure(ctx context.Context) (*Structure, error)
}

// batchRequest is the wire form of a single-batch-mode request.
type batchRequest struct {
	SteamID        string          `json:"steamId"`
	BenchmarkName  string          `json:"benchmarkName"`
	Difficulty     string          `json:"difficulty"`
	BatchOverrides []BatchOverride `json:"batchOverrides"`
}

// structureRequest is the wire form of a structure-fetch-mode request.
type structureRequest struct {
	SteamID       string `json:"steamId"`
	BenchmarkName string `json:"benchmarkName"`
	Difficulty    string `json:"difficulty"`
	FetchOnly     bool   `json:"fetchOnly"`
}

// batchResponse is the wire form of a batch-mode response.
type batchResponse struct {
	Success bool          `json:"success"`
	Error   string        `json:"error,omitempty"`
	Results []BatchResult `json:"results,omitempty"`
}
