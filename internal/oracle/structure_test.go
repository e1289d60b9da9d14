package oracle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/rankhist/internal/oracle"
)

func TestParseStructureResponse_PreservesScenarioOrder(t *testing.T) {
	t.Parallel()

	// Overrides are matched positionally, so the document order of the
	// scenario keys is the canonical order.
	raw := []byte(`{
		"success": true,
		"data": {
			"categories": {
				"Clicking": {
					"scenarios": {
						"Pasu Voltaic": {"maxScore": 1200},
						"B180 Voltaic": {"maxScore": 1100}
					}
				},
				"Tracking": {
					"scenarios": {
						"Smoothbot Voltaic": {"maxScore": 3800},
						"Air Voltaic": {"maxScore": 3400}
					}
				},
				"Switching": {
					"scenarios": {
						"PatTS Voltaic": {"maxScore": 1300}
					}
				}
			},
			"ranks": [
				{"name": "Iron"},
				{"name": "Bronze"},
				{"name": "Silver"}
			]
		}
	}`)

	structure, err := oracle.ParseStructureResponse(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Pasu Voltaic",
		"B180 Voltaic",
		"Smoothbot Voltaic",
		"Air Voltaic",
		"PatTS Voltaic",
	}, structure.Scenarios)

	require.Len(t, structure.Ranks, 3)
	assert.Equal(t, "Iron", structure.Ranks[0].Name)
	assert.Equal(t, "Silver", structure.Ranks[2].Name)
}

func TestParseStructureResponse_IgnoresNonScenarioCategoryFields(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"success": true,
		"data": {
			"categories": {
				"Clicking": {
					"displayName": "Clicking",
					"weights": [1, 2, 3],
					"scenarios": {"Pasu Voltaic": {}}
				}
			},
			"ranks": []
		}
	}`)

	structure, err := oracle.ParseStructureResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pasu Voltaic"}, structure.Scenarios)
}

func TestParseStructureResponse_OracleFailure(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"success": false, "error": "unknown benchmark"}`)

	_, err := oracle.ParseStructureResponse(raw)
	require.ErrorIs(t, err, oracle.ErrOracleFailure)
	assert.Contains(t, err.Error(), "unknown benchmark")
}

func TestParseStructureResponse_MissingCategories(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"success": true, "data": {"ranks": [{"name": "Iron"}]}}`)

	structure, err := oracle.ParseStructureResponse(raw)
	require.NoError(t, err)
	assert.Empty(t, structure.Scenarios)
	require.Len(t, structure.Ranks, 1)
}

func TestParseStructureResponse_NotJSON(t *testing.T) {
	t.Parallel()

	_, err := oracle.ParseStructureResponse([]byte(`<html>502</html>`))
	require.ErrorIs(t, err, oracle.ErrInvalidResponse)
}
