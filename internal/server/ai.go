package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/llm"
	"github.com/ledgerline/riskline/internal/report"
)

type explainRequest struct {
	CaseID string `json:"case_id" binding:"required"`
}

func (s *Server) explain(c *gin.Context) {
	var req explainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	found, err := s.cases.Get(req.CaseID)
	if err != nil {
		s.respondError(c, err)
		return
	}

	explanation, err := s.engine.GenerateExplanation(c.Request.Context(), &found)
	if err != nil {
		s.respondError(c, err)
		return
	}

	if err := s.cases.MarkExplained(found.ID, explanation.ModelUsed, explanation.TokensConsumed); err != nil {
		s.logger.Warn("failed to update case metadata", "case_id", found.ID, "error", err)
	}

	c.JSON(http.StatusOK, explanation)
}

type transactionRequest struct {
	CustomerName    string  `json:"customer_name" binding:"required"`
	Country         string  `json:"country" binding:"required"`
	TransactionType string  `json:"transaction_type"`
	Amount          float64 `json:"amount" binding:"required,gt=0"`
}

func (s *Server) score(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := s.engine.GenerateRiskScore(c.Request.Context(), req.CustomerName, req.Amount, req.Country, req.TransactionType)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) categorize(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := s.engine.GenerateRiskCategory(c.Request.Context(), req.CustomerName, req.Amount, req.Country, req.TransactionType)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type reportRequest struct {
	CaseIDs          []string `json:"case_ids"`
	IncludeAISummary bool     `json:"include_ai_summary"`
}

func (s *Server) report(c *gin.Context) {
	var req reportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	cases := s.cases.Open()
	if len(req.CaseIDs) > 0 {
		cases = s.cases.ByIDs(req.CaseIDs)
	}
	if len(cases) == 0 {
		cases = s.cases.List()
	}

	r := report.Aggregate(cases)

	if req.IncludeAISummary {
		summary, err := s.engine.GenerateReportSummary(c.Request.Context(),
			r.TotalCases, r.HighRiskCount, r.MediumRiskCount, r.LowRiskCount, r.AvgRisk, r.TotalAmount)
		if err != nil {
			s.respondError(c, err)
			return
		}
		r.Summary = summary.Summary
	} else {
		r.Summary = engine.FallbackReportSummary(r.TotalCases, r.HighRiskCount, r.MediumRiskCount, r.LowRiskCount, r.TotalAmount).Summary
	}

	c.JSON(http.StatusOK, r)
}

type complianceRequest struct {
	CustomerName         string  `json:"customer_name" binding:"required"`
	Country              string  `json:"country" binding:"required"`
	TransactionType      string  `json:"transaction_type"`
	Amount               float64 `json:"amount" binding:"required,gt=0"`
	AccountAgeDays       *int    `json:"account_age_days"`
	RecentTransactions7d *int    `json:"recent_transactions_7d"`
}

func (s *Server) analyzeCompliance(c *gin.Context) {
	var req complianceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	var signals *llm.ComplianceSignals
	if req.AccountAgeDays != nil || req.RecentTransactions7d != nil {
		signals = &llm.ComplianceSignals{}
		if req.AccountAgeDays != nil {
			signals.AccountAgeDays = *req.AccountAgeDays
		}
		if req.RecentTransactions7d != nil {
			signals.RecentTxCount7d = *req.RecentTransactions7d
		}
	}

	result, err := s.engine.AnalyzeCompliance(c.Request.Context(),
		req.CustomerName, req.Amount, req.Country, req.TransactionType, signals)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
