package usage

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, budget float64) *Tracker {
	t.Helper()
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "usage.json"))
	require.NoError(t, err)
	tracker, err := NewTracker(store, budget, slog.Default())
	require.NoError(t, err)
	return tracker
}

func TestTrackerTrackAccumulates(t *testing.T) {
	tracker := newTestTracker(t, 250.0)

	require.NoError(t, tracker.Track(1500, "ibm/granite-3-2-8b-instruct", "/explain", map[string]any{"case_id": "abc"}))
	require.NoError(t, tracker.Track(500, "ibm/granite-3-2-8b-instruct", "/score", nil))

	summary := tracker.Summary()
	assert.Equal(t, 2000, summary.TokensUsed)
	assert.Equal(t, 2, summary.RequestsCount)
	assert.InDelta(t, Cost(2000), summary.SpentUSD, 1e-9)
	assert.Equal(t, 250.0, summary.TotalBudgetUSD)
}

func TestLedgerTotalsMatchRequestLog(t *testing.T) {
	store, err := NewJSONStore(filepath.Join(t.TempDir(), "usage.json"))
	require.NoError(t, err)
	tracker, err := NewTracker(store, 250.0, slog.Default())
	require.NoError(t, err)

	require.NoError(t, tracker.Track(1200, "mock", "/explain", nil))
	require.NoError(t, tracker.Track(800, "mock", "/score", nil))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Requests, 2)

	sum := 0
	for _, r := range loaded.Requests {
		sum += r.Tokens
	}
	assert.Equal(t, sum, loaded.TotalTokens)
	assert.Equal(t, len(loaded.Requests), loaded.TotalRequests)
}

func TestTrackerPersistsAcrossRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.json")

	store, err := NewJSONStore(path)
	require.NoError(t, err)
	tracker, err := NewTracker(store, 100.0, slog.Default())
	require.NoError(t, err)
	require.NoError(t, tracker.Track(4000, "mock", "/report", nil))

	store2, err := NewJSONStore(path)
	require.NoError(t, err)
	tracker2, err := NewTracker(store2, 100.0, slog.Default())
	require.NoError(t, err)

	summary := tracker2.Summary()
	assert.Equal(t, 4000, summary.TokensUsed)
	assert.Equal(t, 1, summary.RequestsCount)
}

func TestTrackerBudgetCeilingIsInclusive(t *testing.T) {
	// Spending exactly up to the ceiling is allowed; one more token is not.
	budget := Cost(10000)
	tracker := newTestTracker(t, budget)

	assert.True(t, tracker.IsWithinBudget(10000))
	require.NoError(t, tracker.Track(10000, "mock", "/explain", nil))

	assert.True(t, tracker.IsWithinBudget(0))
	assert.False(t, tracker.IsWithinBudget(1))
	assert.Equal(t, 0.0, tracker.RemainingBudget())
}

func TestTrackerWarningTiers(t *testing.T) {
	tests := []struct {
		name         string
		tokens       int
		wantSeverity string
	}{
		{"below half", 1_000_000, ""},
		{"half", 5_000_000, SeverityInfo},
		{"high", 7_500_000, SeverityWarning},
		{"critical", 9_500_000, SeverityCritical},
		{"over budget", 12_000_000, SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := newTestTracker(t, 1.0)
			require.NoError(t, tracker.Track(tt.tokens, "mock", "/explain", nil))

			warning := tracker.Warning()
			if tt.wantSeverity == "" {
				assert.Nil(t, warning)
				return
			}
			require.NotNil(t, warning)
			assert.Equal(t, tt.wantSeverity, warning.Severity)
			assert.InDelta(t, Cost(tt.tokens)*100, warning.PercentageUsed, 0.01)
		})
	}
}

func TestTrackerReset(t *testing.T) {
	tracker := newTestTracker(t, 50.0)
	require.NoError(t, tracker.Track(2500, "mock", "/categorize", nil))

	require.NoError(t, tracker.Reset())

	summary := tracker.Summary()
	assert.Equal(t, 0, summary.TokensUsed)
	assert.Equal(t, 0, summary.RequestsCount)
	assert.Equal(t, 0.0, summary.SpentUSD)
}

func TestCost(t *testing.T) {
	assert.InDelta(t, 0.0001, Cost(1000), 1e-12)
	assert.Equal(t, 0.0, Cost(0))
}
