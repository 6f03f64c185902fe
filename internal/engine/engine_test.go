package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/riskline/internal/common"
	"github.com/ledgerline/riskline/internal/model"
)

type stubGenerator struct {
	text      string
	err       error
	available bool
	prompts   []string
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubGenerator) Available() bool { return s.available }

func (s *stubGenerator) Model() string { return "ibm/granite-3-2-8b-instruct" }

type trackedCall struct {
	tokens   int
	endpoint string
}

type stubTracker struct {
	within  bool
	tracked []trackedCall
}

func (s *stubTracker) IsWithinBudget(_ int) bool { return s.within }

func (s *stubTracker) Track(tokens int, _, endpoint string, _ map[string]any) error {
	s.tracked = append(s.tracked, trackedCall{tokens: tokens, endpoint: endpoint})
	return nil
}

type stubRetriever struct {
	chunks []model.Chunk
	all    string
}

func (s *stubRetriever) RetrieveRelevant(_ string, topK int) []model.Chunk {
	if len(s.chunks) > topK {
		return s.chunks[:topK]
	}
	return s.chunks
}

func (s *stubRetriever) AllChunksText() string { return s.all }

func newTestEngine(gen *stubGenerator, tracker *stubTracker, docs Retriever) *Engine {
	return New(gen, tracker, docs, time.Second, nil)
}

func demoCase() *model.Case {
	return &model.Case{
		ID:           "case-1",
		CustomerName: "Alice Johnson",
		Amount:       5300,
		Country:      "SG",
		RiskScore:    0.82,
		Status:       model.StatusNew,
	}
}

func TestExplanationFallbackWhenUnavailable(t *testing.T) {
	gen := &stubGenerator{available: false}
	tracker := &stubTracker{within: true}
	e := newTestEngine(gen, tracker, nil)

	expl, err := e.GenerateExplanation(context.Background(), demoCase())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expl.ModelUsed, MockModelPrefix))
	assert.Equal(t, 0, expl.TokensConsumed)
	assert.Equal(t, 0.91, expl.Confidence)
	assert.Empty(t, gen.prompts, "unavailable generator must not be invoked")
	assert.Empty(t, tracker.tracked, "no usage tracked for fallback")
}

func TestExplanationBudgetExceeded(t *testing.T) {
	gen := &stubGenerator{available: true, text: "fine"}
	tracker := &stubTracker{within: false}
	e := newTestEngine(gen, tracker, nil)

	_, err := e.GenerateExplanation(context.Background(), demoCase())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrBudgetExceeded))
	assert.Empty(t, gen.prompts)
}

func TestExplanationGenerationFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{available: true, err: errors.New("connection reset")}
	tracker := &stubTracker{within: true}
	e := newTestEngine(gen, tracker, nil)

	expl, err := e.GenerateExplanation(context.Background(), demoCase())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(expl.ModelUsed, MockModelPrefix))
	assert.Empty(t, tracker.tracked)
}

func TestExplanationSuccessTracksUsage(t *testing.T) {
	raw := "High-value transfer from a monitored jurisdiction. Recommended action: escalate to senior review."
	gen := &stubGenerator{available: true, text: raw}
	tracker := &stubTracker{within: true}
	e := newTestEngine(gen, tracker, nil)

	expl, err := e.GenerateExplanation(context.Background(), demoCase())
	require.NoError(t, err)
	assert.Equal(t, "High-value transfer from a monitored jurisdiction.", expl.Rationale)
	assert.Equal(t, "escalate to senior review.", expl.RecommendedAction)
	assert.Equal(t, "ibm/granite-3-2-8b-instruct", expl.ModelUsed)

	require.Len(t, gen.prompts, 1)
	wantTokens := (len(gen.prompts[0]) + len(raw)) / 4
	assert.Equal(t, wantTokens, expl.TokensConsumed)
	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "/explain", tracker.tracked[0].endpoint)
	assert.Equal(t, wantTokens, tracker.tracked[0].tokens)
}

func TestRiskScoreParsesTaggedOutput(t *testing.T) {
	gen := &stubGenerator{available: true, text: "RISK_SCORE: 0.75\nREASONING: large offshore wire\nRISK_LEVEL: HIGH"}
	tracker := &stubTracker{within: true}
	e := newTestEngine(gen, tracker, nil)

	result, err := e.GenerateRiskScore(context.Background(), "Carol", 50000, "RU", "wire transfer")
	require.NoError(t, err)
	assert.Equal(t, 0.75, result.Score)
	assert.Equal(t, model.RiskLevelHigh, result.Level)
	assert.Equal(t, "large offshore wire", result.Reasoning)
	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "/score", tracker.tracked[0].endpoint)
}

func TestRiskScoreFallbackScenarios(t *testing.T) {
	tests := []struct {
		name      string
		amount    float64
		country   string
		wantScore float64
		wantLevel model.RiskLevel
	}{
		{"high amount to Iran", 12000, "IR", 0.64, model.RiskLevelMedium},
		{"small domestic", 450, "US", 0.13, model.RiskLevelLow},
		{"capped amount weight", 100000, "KP", 0.88, model.RiskLevelHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, level := RuleBasedScore(tt.amount, tt.country)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantLevel, level)
		})
	}
}

func TestRiskCategoryBudgetExceeded(t *testing.T) {
	gen := &stubGenerator{available: true}
	tracker := &stubTracker{within: false}
	e := newTestEngine(gen, tracker, nil)

	_, err := e.GenerateRiskCategory(context.Background(), "Dan", 900, "US", "")
	assert.True(t, errors.Is(err, common.ErrBudgetExceeded))
}

func TestReportSummarySilentFallbackOnBudget(t *testing.T) {
	gen := &stubGenerator{available: true, text: "unused"}
	tracker := &stubTracker{within: false}
	e := newTestEngine(gen, tracker, nil)

	result, err := e.GenerateReportSummary(context.Background(), 10, 3, 4, 3, 0.52, 77390)
	require.NoError(t, err)
	assert.Equal(t, RuleBasedModel, result.ModelUsed)
	assert.Contains(t, result.Summary, "10 transactions")
	assert.Empty(t, gen.prompts)
}

func TestComplianceUsesRetrievedChunks(t *testing.T) {
	raw := "COMPLIANCE_STATUS: REVIEW_REQUIRED\nVIOLATIONS: Exceeds EDD threshold\nRELEVANT_REGULATIONS: AML Policy section 2\nRECOMMENDATION: Hold pending documentation.\nCONFIDENCE: 0.85"
	gen := &stubGenerator{available: true, text: raw}
	tracker := &stubTracker{within: true}
	docs := &stubRetriever{chunks: []model.Chunk{
		{Text: "Transactions above $10,000 require enhanced due diligence."},
	}}
	e := newTestEngine(gen, tracker, docs)

	result, err := e.AnalyzeCompliance(context.Background(), "Emma", 15000, "AU", "wire transfer", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReviewRequired, result.Status)
	assert.Equal(t, []string{"Exceeds EDD threshold"}, result.Violations)
	assert.Equal(t, 0.85, result.Confidence)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "enhanced due diligence")
	require.Len(t, tracker.tracked, 1)
	assert.Equal(t, "/compliance/analyze", tracker.tracked[0].endpoint)
}

func TestComplianceFallsBackToFullCorpus(t *testing.T) {
	gen := &stubGenerator{available: true, text: "COMPLIANCE_STATUS: COMPLIANT\nVIOLATIONS: None\nRECOMMENDATION: Approve.\nCONFIDENCE: 0.9"}
	tracker := &stubTracker{within: true}
	docs := &stubRetriever{all: "=== aml_policy.pdf ===\nfull corpus text"}
	e := newTestEngine(gen, tracker, docs)

	_, err := e.AnalyzeCompliance(context.Background(), "Frank", 200, "US", "ach", nil)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "full corpus text")
}

func TestRuleBasedComplianceScenarios(t *testing.T) {
	tests := []struct {
		name           string
		amount         float64
		country        string
		wantStatus     model.ComplianceStatus
		wantViolations int
	}{
		{"clean transaction", 450, "US", model.StatusCompliant, 0},
		{"over threshold only", 15000, "AU", model.StatusReviewRequired, 1},
		{"high-risk country only", 900, "IR", model.StatusReviewRequired, 1},
		{"threshold and sanctions", 15000, "RU", model.StatusNonCompliant, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RuleBasedCompliance(tt.amount, tt.country)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Len(t, result.Violations, tt.wantViolations)
			assert.Equal(t, RuleBasedModel, result.ModelUsed)
			assert.Equal(t, 0, result.TokensConsumed)
		})
	}
}

func TestFallbackExplanationTiers(t *testing.T) {
	c := demoCase()

	c.RiskScore = 0.82
	assert.Equal(t, 0.91, FallbackExplanation(c).Confidence)

	c.RiskScore = 0.54
	expl := FallbackExplanation(c)
	assert.Equal(t, 0.76, expl.Confidence)
	assert.Contains(t, expl.RecommendedAction, "APPROVE with enhanced monitoring")

	c.RiskScore = 0.18
	assert.Equal(t, 0.89, FallbackExplanation(c).Confidence)
}
