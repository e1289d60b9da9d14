package oracle_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rankhist/internal/oracle"
)

// writeFakeOracle drops an executable shell script standing in for the
// rank-calculator binary and returns its path.
func writeFakeOracle(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake oracle scripts require a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "oracle.sh")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755)
	require.NoError(t, err)

	return path
}

func TestProcess_RankBatch(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
echo '{"success": true, "results": [
  {"date": "2024-01-01", "rank": 1, "rankName": "Bronze",
   "details": {"harmonicMean": 512.5, "progressToNextRank": 0.25}},
  {"date": "2024-01-02", "rank": 2, "rankName": "Silver",
   "details": {"progressToNextRank": 0.1}}
]}'`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	results, err := process.RankBatch(context.Background(), []oracle.BatchOverride{
		{Date: "2024-01-01", ScoreOverrides: []float64{100, 0}},
		{Date: "2024-01-02", ScoreOverrides: []float64{100, 200}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2024-01-01", results[0].Date)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "Bronze", results[0].RankName)
	require.NotNil(t, results[0].Details.HarmonicMean)
	assert.InDelta(t, 512.5, *results[0].Details.HarmonicMean, 0.001)

	assert.Nil(t, results[1].Details.HarmonicMean)
	assert.InDelta(t, 0.1, results[1].Details.ProgressToNextRank, 0.001)
}

func TestProcess_RankBatchOracleFailure(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
echo '{"success": false, "error": "player has no scores"}'`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	_, err := process.RankBatch(context.Background(), nil)
	require.ErrorIs(t, err, oracle.ErrOracleFailure)
	assert.Contains(t, err.Error(), "player has no scores")
}

func TestProcess_RankBatchStderrFallback(t *testing.T) {
	t.Parallel()

	// Some oracle builds log to stdout and answer on stderr.
	path := writeFakeOracle(t, `cat >/dev/null
echo 'loading benchmark data...'
echo '{"success": true, "results": []}' >&2`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	results, err := process.RankBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestProcess_RankBatchNoJSONAnywhere(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
echo 'not json'
echo 'also not json' >&2`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	_, err := process.RankBatch(context.Background(), nil)
	require.ErrorIs(t, err, oracle.ErrInvalidResponse)
}

func TestProcess_RankBatchSchemaViolation(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
echo '{"results": []}'`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	_, err := process.RankBatch(context.Background(), nil)
	require.ErrorIs(t, err, oracle.ErrInvalidResponse)
}

func TestProcess_RankBatchNonZeroExitWithErrorObject(t *testing.T) {
	t.Parallel()

	// A failing exit status still carries a parseable error object.
	path := writeFakeOracle(t, `cat >/dev/null
echo '{"success": false, "error": "fatal: config missing"}'
exit 3`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	_, err := process.RankBatch(context.Background(), nil)
	require.ErrorIs(t, err, oracle.ErrOracleFailure)
}

func TestProcess_RankBatchTimeout(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
sleep 10`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", 100*time.Millisecond)

	_, err := process.RankBatch(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestProcess_FetchStructure(t *testing.T) {
	t.Parallel()

	path := writeFakeOracle(t, `cat >/dev/null
echo '{"success": true, "data": {
  "categories": {
    "Clicking": {"scenarios": {"Pasu Voltaic": {}, "B180 Voltaic": {}}},
    "Tracking": {"scenarios": {"Smoothbot Voltaic": {}}}
  },
  "ranks": [{"name": "Iron"}, {"name": "Bronze"}]
}}'`)

	process := oracle.NewProcess(path, "7656119", "Voltaic", "Advanced", time.Minute)

	structure, err := process.FetchStructure(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Pasu Voltaic", "B180 Voltaic", "Smoothbot Voltaic"}, structure.Scenarios)
	require.Len(t, structure.Ranks, 2)
	assert.Equal(t, "Bronze", structure.Ranks[1].Name)
}

func TestProcess_MissingBinary(t *testing.T) {
	t.Parallel()

	process := oracle.NewProcess(
		filepath.Join(t.TempDir(), "missing"), "7656119", "Voltaic", "Advanced", time.Minute)

	_, err := process.RankBatch(context.Background(), nil)
	require.Error(t, err)
}

func TestNewProcess_DefaultTimeout(t *testing.T) {
	t.Parallel()

	process := oracle.NewProcess("/bin/true", "id", "Voltaic", "Advanced", 0)
	assert.Equal(t, oracle.DefaultTimeout, process.Timeout)
}
