// Package report aggregates compliance statistics over case sets.
package report

import (
	"math"
	"time"

	"github.com/ledgerline/riskline/internal/model"
)

// Aggregate computes report statistics for the given cases: risk-tier
// buckets, status distribution, totals, and the period spanned by the case
// timestamps. An empty set yields a trailing seven-day period ending now.
// The Summary field is left empty for the caller to fill.
func Aggregate(cases []model.Case) model.Report {
	r := model.Report{TotalCases: len(cases)}

	if len(cases) == 0 {
		r.PeriodEnd = time.Now()
		r.PeriodStart = r.PeriodEnd.Add(-7 * 24 * time.Hour)
		return r
	}

	var riskSum float64
	r.PeriodStart = cases[0].CreatedAt
	r.PeriodEnd = cases[0].CreatedAt

	for _, c := range cases {
		switch c.RiskLevel() {
		case model.RiskLevelHigh:
			r.HighRiskCount++
		case model.RiskLevelMedium:
			r.MediumRiskCount++
		default:
			r.LowRiskCount++
		}

		switch c.Status {
		case model.StatusNew:
			r.StatusDistribution.New++
		case model.StatusReviewing:
			r.StatusDistribution.Reviewing++
		case model.StatusResolved:
			r.StatusDistribution.Resolved++
		}

		riskSum += c.RiskScore
		r.TotalAmount += c.Amount

		if c.CreatedAt.Before(r.PeriodStart) {
			r.PeriodStart = c.CreatedAt
		}
		if c.CreatedAt.After(r.PeriodEnd) {
			r.PeriodEnd = c.CreatedAt
		}
	}

	r.AvgRisk = round2(riskSum / float64(len(cases)))
	r.TotalAmount = round2(r.TotalAmount)
	return r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
