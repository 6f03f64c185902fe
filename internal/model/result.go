package model

import "time"

// Explanation is an AI-generated (or rule-based) risk assessment for a case.
type Explanation struct {
	CreatedAt         time.Time `json:"created_at"`
	CaseID            string    `json:"case_id"`
	Rationale         string    `json:"rationale"`
	RecommendedAction string    `json:"recommended_action"`
	ModelUsed         string    `json:"model_used"`
	Confidence        float64   `json:"confidence"`
	TokensConsumed    int       `json:"tokens_consumed"`
	GenerationTimeMs  int64     `json:"generation_time_ms"`
}

// RiskScoreResult carries an AI-computed risk score for a transaction.
type RiskScoreResult struct {
	Level            RiskLevel `json:"risk_level"`
	Reasoning        string    `json:"reasoning"`
	ModelUsed        string    `json:"model_used"`
	Score            float64   `json:"risk_score"`
	TokensConsumed   int       `json:"tokens_consumed"`
	GenerationTimeMs int64     `json:"generation_time_ms"`
}

// RiskCategoryResult carries an AI risk categorization for a transaction.
type RiskCategoryResult struct {
	Category         string `json:"risk_category"`
	Reasoning        string `json:"reasoning"`
	ModelUsed        string `json:"model_used"`
	TokensConsumed   int    `json:"tokens_consumed"`
	GenerationTimeMs int64  `json:"generation_time_ms"`
}

// ReportSummaryResult carries an executive summary for a compliance report.
type ReportSummaryResult struct {
	Summary          string `json:"summary"`
	ModelUsed        string `json:"model_used"`
	TokensConsumed   int    `json:"tokens_consumed"`
	GenerationTimeMs int64  `json:"generation_time_ms"`
}

// ComplianceStatus is the verdict of a compliance analysis.
type ComplianceStatus string

// Compliance verdicts.
const (
	StatusCompliant      ComplianceStatus = "COMPLIANT"
	StatusNonCompliant   ComplianceStatus = "NON_COMPLIANT"
	StatusReviewRequired ComplianceStatus = "REVIEW_REQUIRED"
)

// ParseComplianceStatus returns the status matching s, or false if s is
// not a recognized verdict.
func ParseComplianceStatus(s string) (ComplianceStatus, bool) {
	switch ComplianceStatus(s) {
	case StatusCompliant, StatusNonCompliant, StatusReviewRequired:
		return ComplianceStatus(s), true
	default:
		return "", false
	}
}

// ComplianceAnalysis is the result of a RAG-augmented compliance check.
type ComplianceAnalysis struct {
	Status           ComplianceStatus `json:"compliance_status"`
	Recommendation   string           `json:"recommendation"`
	ModelUsed        string           `json:"model_used"`
	Violations       []string         `json:"violations"`
	Regulations      []string         `json:"relevant_regulations"`
	Confidence       float64          `json:"confidence"`
	TokensConsumed   int              `json:"tokens_consumed"`
	GenerationTimeMs int64            `json:"generation_time_ms"`
}
