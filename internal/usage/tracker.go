package usage

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

// Warning severity levels for budget consumption.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// BudgetWarning describes how close the tracker is to its spending ceiling.
type BudgetWarning struct {
	Severity       string  `json:"severity"`
	Message        string  `json:"message"`
	PercentageUsed float64 `json:"percentage_used"`
}

// Summary is a point-in-time snapshot of budget consumption.
type Summary struct {
	TotalBudgetUSD float64   `json:"total_budget_usd"`
	SpentUSD       float64   `json:"spent_usd"`
	RemainingUSD   float64   `json:"remaining_usd"`
	TokensUsed     int       `json:"tokens_used"`
	RequestsCount  int       `json:"requests_count"`
	PercentageUsed float64   `json:"percentage_used"`
	StartedAt      time.Time `json:"started_at"`
}

// Tracker accumulates token usage against a fixed USD budget and persists
// every mutation through its Store.
type Tracker struct {
	store  Store
	logger *slog.Logger

	mu     sync.Mutex
	ledger *Ledger
	budget float64
}

// NewTracker loads (or initializes) the ledger and returns a tracker with the
// given budget ceiling in USD.
func NewTracker(store Store, budgetUSD float64, logger *slog.Logger) (*Tracker, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ledger, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load usage ledger: %w", err)
	}
	if ledger == nil {
		ledger = NewLedger()
		if err := store.Save(ledger); err != nil {
			return nil, fmt.Errorf("failed to initialize usage ledger: %w", err)
		}
	}
	return &Tracker{
		store:  store,
		logger: logger,
		ledger: ledger,
		budget: budgetUSD,
	}, nil
}

// Track records a completed model invocation and persists the ledger.
func (t *Tracker) Track(tokens int, model, endpoint string, metadata map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cost := Cost(tokens)
	rec := RequestRecord{
		Timestamp: time.Now(),
		Tokens:    tokens,
		CostUSD:   cost,
		Model:     model,
		Endpoint:  endpoint,
		Metadata:  metadata,
	}
	t.ledger.Requests = append(t.ledger.Requests, rec)
	t.ledger.TotalTokens += tokens
	t.ledger.TotalRequests++
	t.ledger.TotalCostUSD += cost

	if err := t.store.Save(t.ledger); err != nil {
		return fmt.Errorf("failed to persist usage ledger: %w", err)
	}

	t.logger.Debug("tracked model usage",
		"tokens", tokens,
		"cost_usd", cost,
		"model", model,
		"endpoint", endpoint,
		"total_cost_usd", t.ledger.TotalCostUSD)
	return nil
}

// IsWithinBudget reports whether spending estimatedTokens more would still
// keep total cost at or under the ceiling. Spending exactly up to the ceiling
// is allowed.
func (t *Tracker) IsWithinBudget(estimatedTokens int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	projected := t.ledger.TotalCostUSD + Cost(estimatedTokens)
	return projected <= t.budget
}

// RemainingBudget returns the unspent portion of the budget in USD, floored
// at zero.
func (t *Tracker) RemainingBudget() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.budget - t.ledger.TotalCostUSD
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Summary returns a snapshot of consumption against the budget.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	spent := round(t.ledger.TotalCostUSD, 4)
	remaining := round(t.budget-t.ledger.TotalCostUSD, 4)
	if remaining < 0 {
		remaining = 0
	}
	pct := 0.0
	if t.budget > 0 {
		pct = round(t.ledger.TotalCostUSD/t.budget*100, 2)
	}
	return Summary{
		TotalBudgetUSD: t.budget,
		SpentUSD:       spent,
		RemainingUSD:   remaining,
		TokensUsed:     t.ledger.TotalTokens,
		RequestsCount:  t.ledger.TotalRequests,
		PercentageUsed: pct,
		StartedAt:      t.ledger.StartedAt,
	}
}

// Warning returns a severity-graded warning once consumption crosses 50% of
// the budget, or nil below that.
func (t *Tracker) Warning() *BudgetWarning {
	t.mu.Lock()
	defer t.mu.Unlock()

	pct := 0.0
	if t.budget > 0 {
		pct = round(t.ledger.TotalCostUSD/t.budget*100, 2)
	}
	switch {
	case pct >= 90:
		return &BudgetWarning{
			Severity:       SeverityCritical,
			Message:        fmt.Sprintf("Budget nearly exhausted: %.2f%% used", pct),
			PercentageUsed: pct,
		}
	case pct >= 75:
		return &BudgetWarning{
			Severity:       SeverityWarning,
			Message:        fmt.Sprintf("Budget usage high: %.2f%% used", pct),
			PercentageUsed: pct,
		}
	case pct >= 50:
		return &BudgetWarning{
			Severity:       SeverityInfo,
			Message:        fmt.Sprintf("Budget usage halfway: %.2f%% used", pct),
			PercentageUsed: pct,
		}
	default:
		return nil
	}
}

// Reset discards all recorded usage and persists an empty ledger.
func (t *Tracker) Reset() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ledger = NewLedger()
	if err := t.store.Save(t.ledger); err != nil {
		return fmt.Errorf("failed to persist usage ledger: %w", err)
	}
	t.logger.Info("usage ledger reset")
	return nil
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
