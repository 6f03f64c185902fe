// Package engine orchestrates AI risk assessment tasks: budget gating,
// prompt construction, generation, parsing, usage tracking, and rule-based
// fallbacks when the model path is unavailable.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledgerline/riskline/internal/common"
	"github.com/ledgerline/riskline/internal/llm"
	"github.com/ledgerline/riskline/internal/model"
)

// Estimated token costs used for pre-flight budget checks.
const (
	estimatedExplainTokens    = 500
	estimatedScoreTokens      = 500
	estimatedCategoryTokens   = 500
	estimatedReportTokens     = 400
	estimatedComplianceTokens = 800

	complianceTopK = 3
)

// UsageTracker is the budget surface the engine needs.
type UsageTracker interface {
	IsWithinBudget(estimatedTokens int) bool
	Track(tokens int, model, endpoint string, metadata map[string]any) error
}

// Retriever supplies policy document context for compliance analysis.
type Retriever interface {
	RetrieveRelevant(query string, topK int) []model.Chunk
	AllChunksText() string
}

// Engine ties the generator, budget tracker, and document retrieval together.
type Engine struct {
	gen     llm.Generator
	tracker UsageTracker
	docs    Retriever
	logger  *slog.Logger
	timeout time.Duration
}

// New creates an engine. docs may be nil when no document store is wired;
// compliance analysis then runs without retrieved context.
func New(gen llm.Generator, tracker UsageTracker, docs Retriever, timeout time.Duration, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Engine{
		gen:     gen,
		tracker: tracker,
		docs:    docs,
		logger:  logger,
		timeout: timeout,
	}
}

// Available reports whether the live model path is usable.
func (e *Engine) Available() bool {
	return e.gen.Available()
}

// GenerateExplanation produces a risk explanation for a case. When the model
// is unavailable or generation fails, a templated fallback is returned with
// a nil error; only budget exhaustion is surfaced to the caller.
func (e *Engine) GenerateExplanation(ctx context.Context, c *model.Case) (*model.Explanation, error) {
	if !e.gen.Available() {
		return FallbackExplanation(c), nil
	}
	if !e.tracker.IsWithinBudget(estimatedExplainTokens) {
		return nil, fmt.Errorf("explanation for case %s: %w", c.ID, common.ErrBudgetExceeded)
	}

	prompt := llm.FullPrompt(llm.BuildExplanationPrompt(c.CustomerName, c.Amount, c.Country, c.RiskScore))
	raw, elapsed, err := e.invoke(ctx, prompt)
	if err != nil {
		e.logger.Warn("explanation generation failed, using fallback", "case_id", c.ID, "error", err)
		return FallbackExplanation(c), nil
	}

	cleaned := llm.Clean(raw)
	rationale, action := llm.SplitExplanation(cleaned)
	tokens := estimateTokens(prompt, raw)
	e.track(tokens, "/explain", map[string]any{
		"customer":   c.CustomerName,
		"amount":     c.Amount,
		"risk_score": c.RiskScore,
	})

	return &model.Explanation{
		CaseID:            c.ID,
		Rationale:         rationale,
		RecommendedAction: action,
		Confidence:        llm.EstimateConfidence(c.RiskScore, cleaned),
		ModelUsed:         e.gen.Model(),
		TokensConsumed:    tokens,
		GenerationTimeMs:  elapsed.Milliseconds(),
		CreatedAt:         time.Now(),
	}, nil
}

// GenerateRiskScore computes an AI risk score for a prospective transaction.
func (e *Engine) GenerateRiskScore(ctx context.Context, customerName string, amount float64, country, transactionType string) (*model.RiskScoreResult, error) {
	if !e.gen.Available() {
		return FallbackRiskScore(customerName, amount, country), nil
	}
	if !e.tracker.IsWithinBudget(estimatedScoreTokens) {
		return nil, fmt.Errorf("risk scoring: %w", common.ErrBudgetExceeded)
	}

	prompt := llm.FullPrompt(llm.BuildRiskScoringPrompt(customerName, amount, country, transactionType))
	raw, elapsed, err := e.invoke(ctx, prompt)
	if err != nil {
		e.logger.Warn("risk scoring failed, using rule-based score", "customer", customerName, "error", err)
		return FallbackRiskScore(customerName, amount, country), nil
	}

	score, reasoning, level := llm.ParseRiskScore(llm.Clean(raw))
	tokens := estimateTokens(prompt, raw)
	e.track(tokens, "/score", map[string]any{"customer": customerName, "amount": amount, "country": country})

	return &model.RiskScoreResult{
		Score:            score,
		Level:            level,
		Reasoning:        reasoning,
		ModelUsed:        e.gen.Model(),
		TokensConsumed:   tokens,
		GenerationTimeMs: elapsed.Milliseconds(),
	}, nil
}

// GenerateRiskCategory classifies a transaction into the closed category set.
func (e *Engine) GenerateRiskCategory(ctx context.Context, customerName string, amount float64, country, transactionType string) (*model.RiskCategoryResult, error) {
	if !e.gen.Available() {
		return FallbackRiskCategory(amount, country), nil
	}
	if !e.tracker.IsWithinBudget(estimatedCategoryTokens) {
		return nil, fmt.Errorf("risk categorization: %w", common.ErrBudgetExceeded)
	}

	prompt := llm.FullPrompt(llm.BuildRiskCategoryPrompt(customerName, amount, country, transactionType))
	raw, elapsed, err := e.invoke(ctx, prompt)
	if err != nil {
		e.logger.Warn("risk categorization failed, using rule-based category", "customer", customerName, "error", err)
		return FallbackRiskCategory(amount, country), nil
	}

	category, reasoning := llm.ParseRiskCategory(llm.Clean(raw))
	tokens := estimateTokens(prompt, raw)
	e.track(tokens, "/categorize", map[string]any{"customer": customerName, "amount": amount, "country": country})

	return &model.RiskCategoryResult{
		Category:         category,
		Reasoning:        reasoning,
		ModelUsed:        e.gen.Model(),
		TokensConsumed:   tokens,
		GenerationTimeMs: elapsed.Milliseconds(),
	}, nil
}

// GenerateReportSummary produces an executive summary for report aggregates.
// Unlike the direct AI tasks, budget exhaustion falls back silently here so
// report generation never fails.
func (e *Engine) GenerateReportSummary(ctx context.Context, totalCases, highRisk, mediumRisk, lowRisk int, avgRisk, totalAmount float64) (*model.ReportSummaryResult, error) {
	if !e.gen.Available() || !e.tracker.IsWithinBudget(estimatedReportTokens) {
		return FallbackReportSummary(totalCases, highRisk, mediumRisk, lowRisk, totalAmount), nil
	}

	prompt := llm.FullPrompt(llm.BuildReportSummaryPrompt(totalCases, highRisk, mediumRisk, lowRisk, avgRisk, totalAmount))
	raw, elapsed, err := e.invoke(ctx, prompt)
	if err != nil {
		e.logger.Warn("report summary generation failed, using fallback", "error", err)
		return FallbackReportSummary(totalCases, highRisk, mediumRisk, lowRisk, totalAmount), nil
	}

	tokens := estimateTokens(prompt, raw)
	e.track(tokens, "/report", map[string]any{"total_cases": totalCases, "high_risk_count": highRisk})

	return &model.ReportSummaryResult{
		Summary:          llm.Clean(raw),
		ModelUsed:        e.gen.Model(),
		TokensConsumed:   tokens,
		GenerationTimeMs: elapsed.Milliseconds(),
	}, nil
}

// AnalyzeCompliance runs a retrieval-augmented compliance determination.
// Retrieved policy chunks ground the prompt; with no relevant chunks the
// full corpus text is used instead.
func (e *Engine) AnalyzeCompliance(ctx context.Context, customerName string, amount float64, country, transactionType string, signals *llm.ComplianceSignals) (*model.ComplianceAnalysis, error) {
	if !e.gen.Available() {
		return RuleBasedCompliance(amount, country), nil
	}
	if !e.tracker.IsWithinBudget(estimatedComplianceTokens) {
		return nil, fmt.Errorf("compliance analysis: %w", common.ErrBudgetExceeded)
	}

	docContext := e.documentContext(customerName, amount, country, transactionType)
	prompt := llm.FullPrompt(llm.BuildCompliancePrompt(customerName, amount, country, transactionType, docContext, signals))
	raw, elapsed, err := e.invoke(ctx, prompt)
	if err != nil {
		e.logger.Warn("compliance analysis failed, using rule-based checks", "customer", customerName, "error", err)
		return RuleBasedCompliance(amount, country), nil
	}

	status, violations, regulations, recommendation, confidence := llm.ParseCompliance(llm.Clean(raw))
	tokens := estimateTokens(prompt, raw)
	e.track(tokens, "/compliance/analyze", map[string]any{"customer": customerName, "amount": amount, "country": country})

	return &model.ComplianceAnalysis{
		Status:           status,
		Violations:       violations,
		Regulations:      regulations,
		Recommendation:   recommendation,
		Confidence:       confidence,
		ModelUsed:        e.gen.Model(),
		TokensConsumed:   tokens,
		GenerationTimeMs: elapsed.Milliseconds(),
	}, nil
}

// documentContext retrieves the policy text most relevant to the
// transaction, falling back to the whole corpus, then to a placeholder.
func (e *Engine) documentContext(customerName string, amount float64, country, transactionType string) string {
	if e.docs == nil {
		return "No policy documents available."
	}

	query := fmt.Sprintf("%s %s transaction %s %s compliance sanctions due diligence",
		customerName, transactionType, llm.FormatUSD(amount), country)
	chunks := e.docs.RetrieveRelevant(query, complianceTopK)
	if len(chunks) > 0 {
		parts := make([]string, 0, len(chunks))
		for _, chunk := range chunks {
			parts = append(parts, chunk.Text)
		}
		return strings.Join(parts, "\n\n")
	}

	if all := e.docs.AllChunksText(); all != "" {
		return all
	}
	return "No policy documents available."
}

// invoke runs the generation call under the engine timeout.
func (e *Engine) invoke(ctx context.Context, prompt string) (string, time.Duration, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.gen.Generate(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		return "", elapsed, fmt.Errorf("%w: %v", common.ErrGenerationFailed, err)
	}
	return raw, elapsed, nil
}

func (e *Engine) track(tokens int, endpoint string, metadata map[string]any) {
	if err := e.tracker.Track(tokens, e.gen.Model(), endpoint, metadata); err != nil {
		e.logger.Error("failed to track usage", "endpoint", endpoint, "error", err)
	}
}

// estimateTokens approximates tokens as total characters over four.
func estimateTokens(prompt, response string) int {
	return (len(prompt) + len(response)) / 4
}
