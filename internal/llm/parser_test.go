package llm

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/riskline/internal/model"
)

func TestParseRiskScoreRoundTrip(t *testing.T) {
	text := fmt.Sprintf("RISK_SCORE: %.2f\nREASONING: %s\nRISK_LEVEL: %s", 0.75, "x", model.RiskLevelHigh)

	score, reasoning, level := ParseRiskScore(text)
	assert.Equal(t, 0.75, score)
	assert.Equal(t, "x", reasoning)
	assert.Equal(t, model.RiskLevelHigh, level)
}

func TestParseRiskScoreDefaults(t *testing.T) {
	score, reasoning, level := ParseRiskScore("the model rambled about nothing")
	assert.Equal(t, DefaultScore, score)
	assert.Equal(t, DefaultScoreReasoning, reasoning)
	assert.Equal(t, model.RiskLevelMedium, level)
}

func TestParseRiskScoreDerivesLevelFromScore(t *testing.T) {
	score, _, level := ParseRiskScore("RISK_SCORE: 0.82\nREASONING: large amount")
	assert.Equal(t, 0.82, score)
	assert.Equal(t, model.RiskLevelHigh, level)
}

func TestParseRiskScoreNumberedLabels(t *testing.T) {
	text := "1. RISK_SCORE: 0.3\n2. REASONING: routine payment\n3. RISK_LEVEL: LOW"
	score, reasoning, level := ParseRiskScore(text)
	assert.Equal(t, 0.3, score)
	assert.Equal(t, "routine payment", reasoning)
	assert.Equal(t, model.RiskLevelLow, level)
}

func TestParseRiskCategory(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantCategory  string
		wantReasoning string
	}{
		{
			name:          "both fields",
			text:          "RISK_CATEGORY: Money Laundering\nREASONING: structuring pattern",
			wantCategory:  "Money Laundering",
			wantReasoning: "structuring pattern",
		},
		{
			name:          "lowercase labels",
			text:          "risk_category: Fraud\nreasoning: stolen card indicators",
			wantCategory:  "Fraud",
			wantReasoning: "stolen card indicators",
		},
		{
			name:          "missing everything",
			text:          "unstructured rambling",
			wantCategory:  DefaultCategory,
			wantReasoning: DefaultCategoryReasoning,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, reasoning := ParseRiskCategory(tt.text)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantReasoning, reasoning)
		})
	}
}

func TestParseCompliance(t *testing.T) {
	text := `COMPLIANCE_STATUS: NON_COMPLIANT
VIOLATIONS:
- Exceeds $10,000 reporting threshold
- Destination country is sanctioned
RELEVANT_REGULATIONS: AML Policy section 2; Sanctions Compliance section 1
RECOMMENDATION: Freeze the transaction and file a SAR.
CONFIDENCE: 0.88`

	status, violations, regulations, recommendation, confidence := ParseCompliance(text)
	assert.Equal(t, model.StatusNonCompliant, status)
	assert.Equal(t, []string{"Exceeds $10,000 reporting threshold", "Destination country is sanctioned"}, violations)
	assert.Equal(t, []string{"AML Policy section 2", "Sanctions Compliance section 1"}, regulations)
	assert.Equal(t, "Freeze the transaction and file a SAR.", recommendation)
	assert.Equal(t, 0.88, confidence)
}

func TestParseComplianceNoneBlocks(t *testing.T) {
	text := "COMPLIANCE_STATUS: COMPLIANT\nVIOLATIONS: None\nRELEVANT_REGULATIONS: none\nRECOMMENDATION: Approve.\nCONFIDENCE: 0.9"

	status, violations, regulations, _, _ := ParseCompliance(text)
	assert.Equal(t, model.StatusCompliant, status)
	assert.Empty(t, violations)
	assert.Empty(t, regulations)
}

func TestParseComplianceDefaults(t *testing.T) {
	status, violations, regulations, recommendation, confidence := ParseCompliance("garbage output")
	assert.Equal(t, model.StatusReviewRequired, status)
	assert.Empty(t, violations)
	assert.Empty(t, regulations)
	assert.Equal(t, DefaultRecommendation, recommendation)
	assert.Equal(t, DefaultConfidence, confidence)
}

func TestSplitExplanation(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantRationale string
		wantAction    string
	}{
		{
			name:          "recommended action delimiter",
			text:          "High amount from risky country. Recommended action: escalate to senior review.",
			wantRationale: "High amount from risky country.",
			wantAction:    "escalate to senior review.",
		},
		{
			name:          "recommendation delimiter",
			text:          "Pattern matches prior activity. Recommendation: approve.",
			wantRationale: "Pattern matches prior activity.",
			wantAction:    "approve.",
		},
		{
			name:          "no delimiter",
			text:          "Nothing unusual here.",
			wantRationale: "Nothing unusual here.",
			wantAction:    DefaultAction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rationale, action := SplitExplanation(tt.text)
			assert.Equal(t, tt.wantRationale, rationale)
			assert.Equal(t, tt.wantAction, action)
		})
	}
}

func TestEstimateConfidence(t *testing.T) {
	long := make([]byte, 250)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name  string
		score float64
		text  string
		want  float64
	}{
		{"extreme score long text", 0.9, string(long), 0.95},
		{"extreme score short text", 0.1, "ok", 0.85},
		{"moderate score", 0.65, string(long[:150]), 0.75},
		{"uncertain middle", 0.5, string(long[:150]), 0.6},
		{"floor", 0.5, "x", 0.55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateConfidence(tt.score, tt.text), 1e-9)
		})
	}
}
