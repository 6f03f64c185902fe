package model

// RiskLevel classifies a risk score into a coarse tier.
type RiskLevel string

// Risk tiers used across prompts, fallbacks, and report bucketing.
const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Tier thresholds. Every component that buckets a score must go through
// RiskLevelForScore so the boundaries stay consistent system-wide.
const (
	HighRiskThreshold   = 0.7
	MediumRiskThreshold = 0.4
)

// RiskLevelForScore maps a risk score in [0,1] to its tier.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= HighRiskThreshold:
		return RiskLevelHigh
	case score >= MediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// ParseRiskLevel returns the tier matching s, or false if s is not a
// recognized tier name.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch RiskLevel(s) {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return RiskLevel(s), true
	default:
		return "", false
	}
}
