package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/riskline/internal/model"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, (&Config{ServiceAccountPath: "/tmp/key.json"}).Validate())
	assert.NoError(t, (&Config{ClientID: "id", ClientSecret: "sec", RefreshToken: "tok"}).Validate())
	assert.Error(t, (&Config{ClientID: "id"}).Validate())
	assert.Error(t, (&Config{}).Validate())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, "Compliance Report", cfg.SpreadsheetName)
}

func TestBuildRows(t *testing.T) {
	now := time.Now()
	r := model.Report{
		PeriodStart:   now.Add(-24 * time.Hour),
		PeriodEnd:     now,
		TotalCases:    1,
		HighRiskCount: 1,
		AvgRisk:       0.82,
		TotalAmount:   5300,
		Summary:       "1 high-risk transaction detected.",
	}
	cases := []model.Case{{
		ID: "case-1", CustomerName: "Alice Johnson", Amount: 5300,
		Country: "SG", RiskScore: 0.82, Status: model.StatusNew,
	}}

	rows := buildRows(r, cases)
	assert.Equal(t, []any{"Compliance Report"}, rows[0])
	assert.Equal(t, []any{"Case ID", "Customer", "Amount (USD)", "Country", "Risk Score", "Status"}, rows[8])
	assert.Equal(t, []any{"case-1", "Alice Johnson", 5300.0, "SG", 0.82, "new"}, rows[9])
	assert.Len(t, rows, 10)
}
