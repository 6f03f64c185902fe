package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExplanationPromptEmbedsTier(t *testing.T) {
	prompt := BuildExplanationPrompt("Alice Johnson", 12000, "IR", 0.82)
	assert.Contains(t, prompt, "Customer: Alice Johnson")
	assert.Contains(t, prompt, "$12,000.00 USD")
	assert.Contains(t, prompt, "0.82 (HIGH RISK)")

	prompt = BuildExplanationPrompt("Bob", 450, "US", 0.13)
	assert.Contains(t, prompt, "(LOW RISK)")
}

func TestBuildRiskScoringPromptFormat(t *testing.T) {
	prompt := BuildRiskScoringPrompt("Carol", 50000, "RU", "")
	assert.Contains(t, prompt, "Transaction Type: wire transfer")
	assert.Contains(t, prompt, "RISK_SCORE:")
	assert.Contains(t, prompt, "RISK_LEVEL: [LOW/MEDIUM/HIGH]")
	assert.Contains(t, prompt, "$50,000.00 USD")
}

func TestBuildCompliancePromptIncludesContextAndSignals(t *testing.T) {
	prompt := BuildCompliancePrompt("Dave", 15000, "RU", "wire transfer",
		"=== aml_policy.pdf ===\npolicy text", &ComplianceSignals{AccountAgeDays: 30, RecentTxCount7d: 12})

	assert.Contains(t, prompt, "=== aml_policy.pdf ===")
	assert.Contains(t, prompt, "Account Age: 30 days")
	assert.Contains(t, prompt, "Transactions (last 7 days): 12")
	assert.Contains(t, prompt, "COMPLIANCE_STATUS:")
	assert.Contains(t, prompt, "CONFIDENCE:")

	noSignals := BuildCompliancePrompt("Dave", 15000, "RU", "wire transfer", "ctx", nil)
	assert.NotContains(t, noSignals, "Account Age")
}

func TestFullPromptPrependsSystemRole(t *testing.T) {
	full := FullPrompt("do the thing")
	assert.True(t, strings.HasPrefix(full, SystemRole))
	assert.True(t, strings.HasSuffix(full, "do the thing"))
}

func TestTruncate(t *testing.T) {
	short := "brief prompt"
	assert.Equal(t, short, Truncate(short, 500))

	long := strings.Repeat("word ", 600)
	got := Truncate(long, 100)
	assert.True(t, strings.HasSuffix(got, "[Note: Response truncated]"))
	assert.LessOrEqual(t, len(got), 100*4+len("\n\n[Note: Response truncated]"))
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{450, "450.00"},
		{5300, "5,300.00"},
		{12000.5, "12,000.50"},
		{1234567.89, "1,234,567.89"},
		{-9800, "-9,800.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatUSD(tt.amount))
	}
}
