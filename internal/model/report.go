package model

import "time"

// StatusDistribution breaks down a report's cases by review status.
type StatusDistribution struct {
	New       int `json:"new"`
	Reviewing int `json:"reviewing"`
	Resolved  int `json:"resolved"`
}

// Report aggregates compliance statistics over a set of cases.
type Report struct {
	PeriodStart        time.Time          `json:"period_start"`
	PeriodEnd          time.Time          `json:"period_end"`
	Summary            string             `json:"summary"`
	StatusDistribution StatusDistribution `json:"status_distribution"`
	TotalAmount        float64            `json:"total_amount"`
	AvgRisk            float64            `json:"avg_risk"`
	TotalCases         int                `json:"total_cases"`
	HighRiskCount      int                `json:"high_risk_count"`
	MediumRiskCount    int                `json:"medium_risk_count"`
	LowRiskCount       int                `json:"low_risk_count"`
}
