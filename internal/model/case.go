// Package model defines the core domain types shared across the application.
package model

import (
	"fmt"
	"math"
	"time"
)

// CaseStatus tracks where a flagged transaction sits in the review workflow.
type CaseStatus string

// Valid case statuses.
const (
	StatusNew       CaseStatus = "new"
	StatusReviewing CaseStatus = "reviewing"
	StatusResolved  CaseStatus = "resolved"
)

// Case is a flagged banking transaction under compliance review.
type Case struct {
	CreatedAt    time.Time  `json:"created_at"`
	ID           string     `json:"id"`
	CustomerName string     `json:"customer_name"`
	Country      string     `json:"country"`
	Status       CaseStatus `json:"status"`
	ModelVersion string     `json:"model_version,omitempty"`
	Amount       float64    `json:"amount"`
	RiskScore    float64    `json:"risk_score"`
	TokensUsed   int        `json:"tokens_used,omitempty"`

	// ExplanationGenerated flips once an AI explanation has been produced.
	ExplanationGenerated bool `json:"explanation_generated"`
}

// Validate checks the case invariants: positive amount with at most two
// decimal places, risk score in [0,1], and a known status.
func (c *Case) Validate() error {
	if c.CustomerName == "" {
		return fmt.Errorf("customer name is required")
	}
	if c.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", c.Amount)
	}
	if math.Round(c.Amount*100)/100 != c.Amount {
		return fmt.Errorf("amount must have at most 2 decimal places, got %v", c.Amount)
	}
	if len(c.Country) < 2 {
		return fmt.Errorf("country code is required")
	}
	if c.RiskScore < 0 || c.RiskScore > 1 {
		return fmt.Errorf("risk score must be in [0,1], got %v", c.RiskScore)
	}
	switch c.Status {
	case StatusNew, StatusReviewing, StatusResolved:
	default:
		return fmt.Errorf("invalid status: %q", c.Status)
	}
	return nil
}

// RiskLevel returns the case's risk tier.
func (c *Case) RiskLevel() RiskLevel {
	return RiskLevelForScore(c.RiskScore)
}
