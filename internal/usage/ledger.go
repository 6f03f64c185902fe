// Package usage tracks token consumption and cost against a budget ceiling.
package usage

import "time"

// CostPer1KTokens is the approximate model pricing used for cost accounting.
const CostPer1KTokens = 0.0001

// RequestRecord is one logged generation request.
type RequestRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Model     string         `json:"model"`
	Endpoint  string         `json:"endpoint"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Tokens    int            `json:"tokens"`
	CostUSD   float64        `json:"cost_usd"`
}

// Ledger is the cumulative usage state. TotalCostUSD is always the sum of
// the logged request costs; there is no independent mutation path.
type Ledger struct {
	StartedAt     time.Time       `json:"started_at"`
	Requests      []RequestRecord `json:"requests"`
	TotalTokens   int             `json:"total_tokens"`
	TotalRequests int             `json:"total_requests"`
	TotalCostUSD  float64         `json:"total_cost_usd"`
}

// NewLedger creates an empty ledger starting now.
func NewLedger() *Ledger {
	return &Ledger{StartedAt: time.Now()}
}

// Cost converts a token count to USD.
func Cost(tokens int) float64 {
	return float64(tokens) / 1000 * CostPer1KTokens
}
