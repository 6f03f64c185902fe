package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForScore(t *testing.T) {
	tests := []struct {
		name  string
		want  RiskLevel
		score float64
	}{
		{name: "zero is low", score: 0.0, want: RiskLevelLow},
		{name: "just under medium boundary", score: 0.39, want: RiskLevelLow},
		{name: "medium boundary inclusive", score: 0.4, want: RiskLevelMedium},
		{name: "mid-range medium", score: 0.64, want: RiskLevelMedium},
		{name: "just under high boundary", score: 0.69, want: RiskLevelMedium},
		{name: "high boundary inclusive", score: 0.7, want: RiskLevelHigh},
		{name: "max score", score: 1.0, want: RiskLevelHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskLevelForScore(tt.score))
		})
	}
}

func TestCaseValidate(t *testing.T) {
	valid := Case{
		ID:           "case-1",
		CustomerName: "Alice Johnson",
		Amount:       5300.00,
		Country:      "SG",
		RiskScore:    0.82,
		Status:       StatusNew,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		mutate func(*Case)
		name   string
	}{
		{name: "missing customer", mutate: func(c *Case) { c.CustomerName = "" }},
		{name: "zero amount", mutate: func(c *Case) { c.Amount = 0 }},
		{name: "negative amount", mutate: func(c *Case) { c.Amount = -10 }},
		{name: "too many decimals", mutate: func(c *Case) { c.Amount = 12.345 }},
		{name: "score above one", mutate: func(c *Case) { c.RiskScore = 1.01 }},
		{name: "score below zero", mutate: func(c *Case) { c.RiskScore = -0.1 }},
		{name: "unknown status", mutate: func(c *Case) { c.Status = "archived" }},
		{name: "missing country", mutate: func(c *Case) { c.Country = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestParseFileType(t *testing.T) {
	for _, s := range []string{"pdf", "PDF", ".pdf"} {
		ft, err := ParseFileType(s)
		assert.NoError(t, err)
		assert.Equal(t, FileTypePDF, ft)
	}

	md, err := ParseFileType("markdown")
	assert.NoError(t, err)
	assert.Equal(t, FileTypeMD, md)
	assert.True(t, md.PlainText())

	pdf, _ := ParseFileType("pdf")
	assert.False(t, pdf.PlainText())

	_, err = ParseFileType("xlsx")
	assert.Error(t, err)
}
