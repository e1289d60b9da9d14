package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds one oracle round trip when no timeout is configured.
const DefaultTimeout = 5 * time.Minute

// Process is the Oracle implementation backed by the rank-calculator
// executable. Each call spawns one process, writes one JSON request to its
// stdin and reads one JSON response before the process exits.
type Process struct {
	Path       string
	SteamID    string
	Benchmark  string
	Difficulty string
	Timeout    time.Duration
}

// NewProcess creates a process-backed oracle for one benchmark/difficulty.
func NewProcess(path, steamID, benchmark, difficulty string, timeout time.Duration) *Process {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Process{
		Path:       path,
		SteamID:    steamID,
		Benchmark:  benchmark,
		Difficulty: difficulty,
		Timeout:    timeout,
	}
}

// RankBatch issues a single-batch-mode request and returns one result per
// date the oracle answered.
func (p *Process) RankBatch(ctx context.Context, batch []BatchOverride) ([]BatchResult, error) {
	request := batchRequest{
		SteamID:        p.SteamID,
		BenchmarkName:  p.Benchmark,
		Difficulty:     p.Difficulty,
		BatchOverrides: batch,
	}

	raw, err := p.roundTrip(ctx, request)
	if err != nil {
		return nil, err
	}

	validateErr := validateBatchResponse(raw)
	if validateErr != nil {
		return nil, validateErr
	}

	var response batchResponse

	unmarshalErr := json.Unmarshal(raw, &response)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, unmarshalErr)
	}

	if !response.Success {
		return nil, fmt.Errorf("%w: %s", ErrOracleFailure, response.Error)
	}

	return response.Results, nil
}

// FetchStructure issues a structure-fetch-mode request. The response's own
// ordering is canonical: the oracle matches overrides to scenarios by
// position, not by name.
func (p *Process) FetchStructure(ctx context.Context) (*Structure, error) {
	request := structureRequest{
		SteamID:       p.SteamID,
		BenchmarkName: p.Benchmark,
		Difficulty:    p.Difficulty,
		FetchOnly:     true,
	}

	raw, err := p.roundTrip(ctx, request)
	if err != nil {
		return nil, err
	}

	return parseStructureResponse(raw)
}

// roundTrip runs one oracle process to completion and returns whichever
// output stream carries a JSON object. Some oracle builds write their
// response to stderr, so stdout is preferred and stderr is the fallback.
func (p *Process) roundTrip(ctx context.Context, request any) ([]byte, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshal oracle request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(callCtx, p.Path)
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// A non-zero exit may still carry a parseable error object, so the
	// output is inspected before the exit status.
	raw := pickJSONStream(stdout.Bytes(), stderr.Bytes())
	if raw != nil {
		return raw, nil
	}

	if callCtx.Err() != nil {
		return nil, fmt.Errorf("oracle call timed out after %s: %w", p.Timeout, callCtx.Err())
	}

	if runErr != nil {
		return nil, fmt.Errorf("oracle process: %w (stderr: %s)", runErr, truncate(stderr.String()))
	}

	return nil, fmt.Errorf("%w: no JSON object on stdout or stderr", ErrInvalidResponse)
}

// pickJSONStream returns the first stream holding a JSON value, or nil.
func pickJSONStream(stdout, stderr []byte) []byte {
	for _, stream := range [][]byte{stdout, stderr} {
		trimmed := bytes.TrimSpace(stream)
		if len(trimmed) > 0 && json.Valid(trimmed) {
			return trimmed
		}
	}

	return nil
}

// truncateLen caps stderr excerpts embedded in error messages.
const truncateLen = 200

func truncate(s string) string {
	if len(s) > truncateLen {
		return s[:truncateLen] + "..."
	}

	return s
}
