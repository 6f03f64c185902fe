package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ledgerline/riskline/internal/llm"
	"github.com/ledgerline/riskline/internal/model"
)

// Rule-based result model tags. Callers distinguish a fallback answer from a
// real one by these sentinels.
const (
	RuleBasedModel    = "rule-based"
	MockModelPrefix   = "mock-"
	mockGraniteModel  = MockModelPrefix + "granite-13b-instruct-v2"
	eddThresholdUSD   = 10000.0
	amountRiskCapUSD  = 20000.0
	defaultCountryRsk = 0.3
)

// countryRisk holds fixed jurisdiction risk weights for the rule-based
// scorer and compliance checks.
var countryRisk = map[string]float64{
	"IR": 0.7, "KP": 0.7, "SY": 0.7, "CU": 0.7, "RU": 0.7, "AF": 0.7, "MM": 0.7,
	"PK": 0.5, "PA": 0.5, "VE": 0.5,
}

func countryRiskFor(country string) float64 {
	if risk, ok := countryRisk[strings.ToUpper(country)]; ok {
		return risk
	}
	return defaultCountryRsk
}

func isHighRiskCountry(country string) bool {
	return countryRiskFor(country) >= 0.7
}

// RuleBasedScore computes a deterministic risk score from amount and country:
// 60% amount weight (capped at $20,000) and 40% jurisdiction weight, rounded
// to two decimals.
func RuleBasedScore(amount float64, country string) (float64, model.RiskLevel) {
	amountRisk := math.Min(1, amount/amountRiskCapUSD)
	score := 0.6*amountRisk + 0.4*countryRiskFor(country)
	score = math.Round(score*100) / 100
	return score, model.RiskLevelForScore(score)
}

// FallbackExplanation produces a templated explanation keyed on the risk
// tier, mirroring the demo responses served before model integration.
func FallbackExplanation(c *model.Case) *model.Explanation {
	amount := formatAmount(c.Amount)
	var rationale, action string
	var confidence float64

	switch c.RiskLevel() {
	case model.RiskLevelHigh:
		rationale = fmt.Sprintf("Transaction of $%s from %s exhibits multiple high-risk indicators: unusual pattern, amount significantly exceeds typical customer behavior, and originates from jurisdiction requiring enhanced due diligence.", amount, c.Country)
		action = "HOLD transaction for enhanced due diligence. Required: (1) Contact customer via verified phone, (2) Request supporting documentation, (3) Verify source of funds, (4) File SAR if unable to verify within 24 hours."
		confidence = 0.91
	case model.RiskLevelMedium:
		rationale = fmt.Sprintf("Transaction amount ($%s) from %s exceeds typical range but remains within reasonable bounds. Moderate risk factors present requiring review.", amount, c.Country)
		action = "APPROVE with enhanced monitoring. Recommended: (1) Flag account for 30-day surveillance, (2) Escalate if similar transactions repeat within 7 days, (3) Document approval rationale."
		confidence = 0.76
	default:
		rationale = fmt.Sprintf("Transaction of $%s from %s aligns with established customer behavior pattern. No unusual indicators present.", amount, c.Country)
		action = "APPROVE immediately. No further action required. Continue standard automated monitoring."
		confidence = 0.89
	}

	return &model.Explanation{
		CaseID:            c.ID,
		Rationale:         rationale,
		RecommendedAction: action,
		Confidence:        confidence,
		ModelUsed:         mockGraniteModel,
		TokensConsumed:    0,
		GenerationTimeMs:  50,
		CreatedAt:         time.Now(),
	}
}

// FallbackRiskScore returns the rule-based score as a full result.
func FallbackRiskScore(customerName string, amount float64, country string) *model.RiskScoreResult {
	score, level := RuleBasedScore(amount, country)
	return &model.RiskScoreResult{
		Score: score,
		Level: level,
		Reasoning: fmt.Sprintf("Rule-based assessment for %s: amount $%s weighted against the %s jurisdiction profile.",
			customerName, formatAmount(amount), country),
		ModelUsed:      RuleBasedModel,
		TokensConsumed: 0,
	}
}

// FallbackRiskCategory returns the constant general-risk categorization.
func FallbackRiskCategory(amount float64, country string) *model.RiskCategoryResult {
	reasoning := "Rule-based categorization: no model available to distinguish fraud, laundering, or sanctions signals."
	if amount > eddThresholdUSD && isHighRiskCountry(country) {
		reasoning = "Rule-based categorization: large amount to a high-risk jurisdiction warrants manual typology review."
	}
	return &model.RiskCategoryResult{
		Category:       "General Risk",
		Reasoning:      reasoning,
		ModelUsed:      RuleBasedModel,
		TokensConsumed: 0,
	}
}

// FallbackReportSummary produces a deterministic summary from the aggregates.
func FallbackReportSummary(totalCases, highRisk, mediumRisk, lowRisk int, totalAmount float64) *model.ReportSummaryResult {
	return &model.ReportSummaryResult{
		Summary: fmt.Sprintf("Compliance report for %d transactions. Risk distribution: %d high, %d medium, %d low. Total volume $%s.",
			totalCases, highRisk, mediumRisk, lowRisk, formatAmount(totalAmount)),
		ModelUsed:      RuleBasedModel,
		TokensConsumed: 0,
	}
}

// RuleBasedCompliance applies the fixed threshold and jurisdiction checks:
// zero violations is compliant, one requires review, two or more is
// non-compliant.
func RuleBasedCompliance(amount float64, country string) *model.ComplianceAnalysis {
	violations := []string{}
	regulations := []string{}

	if amount > eddThresholdUSD {
		violations = append(violations, fmt.Sprintf("Transaction amount $%s exceeds the $10,000 enhanced due diligence threshold", formatAmount(amount)))
		regulations = append(regulations, "AML Policy: enhanced due diligence for transactions exceeding $10,000")
	}
	if isHighRiskCountry(country) {
		violations = append(violations, fmt.Sprintf("Destination country %s is on the high-risk jurisdiction list", strings.ToUpper(country)))
		regulations = append(regulations, "Sanctions Compliance: OFAC screening for sanctioned jurisdictions")
	}

	var status model.ComplianceStatus
	var recommendation string
	switch {
	case len(violations) == 0:
		status = model.StatusCompliant
		recommendation = "Approve. Transaction passes rule-based compliance checks."
	case len(violations) == 1:
		status = model.StatusReviewRequired
		recommendation = "Route to a compliance officer for manual review."
	default:
		status = model.StatusNonCompliant
		recommendation = "Block the transaction pending enhanced due diligence and sanctions screening."
	}

	return &model.ComplianceAnalysis{
		Status:         status,
		Violations:     violations,
		Regulations:    regulations,
		Recommendation: recommendation,
		Confidence:     0.8,
		ModelUsed:      RuleBasedModel,
		TokensConsumed: 0,
	}
}

func formatAmount(amount float64) string {
	// Reuse the prompt builder's formatting so "$12,000.00" reads the same
	// in prompts and fallback text.
	return llm.FormatUSD(amount)
}
