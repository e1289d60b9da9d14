package stats

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Score-log filename grammar: "<scenario> - <mode> - <timestamp> Stats.csv".
const (
	statsSuffix    = " Stats.csv"
	fieldDelimiter = " - "
	minNameFields  = 3
	fileTimeLayout = "2006.01.02-15.04.05"
)

// scoreMarker starts the line carrying the session score. The score itself
// is the second comma-delimited token: "Score:,123.45".
const scoreMarker = "Score:"

// ScanStats aggregates the non-fatal skip counters for one scan.
// Per-file parse problems never abort the run; they are only counted.
type ScanStats struct {
	FilesSeen    int
	ScoresFound  int
	SkippedName  int
	SkippedDate  int
	SkippedScore int
}

// Skipped returns the total number of files skipped for any reason.
func (s ScanStats) Skipped() int {
	return s.SkippedName + s.SkippedDate + s.SkippedScore
}

// Scan walks dir once, parses every score log naming a target scenario, and
// folds the results into a Timeline. Only an unreadable directory is fatal;
// malformed files are skipped and counted.
func Scan(dir string, targets []string) (*Timeline, ScanStats, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, ScanStats{}, fmt.Errorf("read stats directory %s: %w", dir, err)
	}

	targetSet := make(map[string]struct{}, len(targets))
	for _, name := range targets {
		targetSet[name] = struct{}{}
	}

	timeline := NewTimeline(targets)

	var scanStats ScanStats

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), statsSuffix) {
			continue
		}

		scanStats.FilesSeen++

		scanFile(dir, entry.Name(), targetSet, timeline, &scanStats)
	}

	return timeline, scanStats, nil
}

// scanFile parses a single score log. Every early return is a non-fatal
// skip; the matching counter is incremented by the caller-owned stats.
func scanFile(dir, name string, targets map[string]struct{}, timeline *Timeline, scanStats *ScanStats) {
	fields := strings.Split(name, fieldDelimiter)
	if len(fields) < minNameFields {
		scanStats.SkippedName++

		return
	}

	scenario := strings.TrimSpace(fields[0])
	if _, ok := targets[scenario]; !ok {
		// Not a target scenario; not an error and not worth counting.
		return
	}

	datePart := strings.TrimSpace(strings.TrimSuffix(fields[len(fields)-1], statsSuffix))

	sessionTime, err := time.Parse(fileTimeLayout, datePart)
	if err != nil {
		scanStats.SkippedDate++

		return
	}

	date := sessionTime.Format(time.DateOnly)

	score, found := extractScore(filepath.Join(dir, name))
	if !found || score < 0 {
		// The session still pins the date even without a usable score.
		timeline.AddDate(date)
		scanStats.SkippedScore++

		return
	}

	timeline.Add(scenario, date, score)
	scanStats.ScoresFound++
}

// extractScore reads the file line by line and stops at the first score
// marker. Scores appear once per file near the top, so each file is opened
// and scanned at most once.
func extractScore(path string) (float64, bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, scoreMarker) {
			continue
		}

		tokens := strings.Split(strings.TrimSpace(line), ",")
		if len(tokens) < 2 {
			return 0, false
		}

		score, parseErr := strconv.ParseFloat(strings.TrimSpace(tokens[1]), 64)
		if parseErr != nil {
			return 0, false
		}

		return score, true
	}

	return 0, false
}
