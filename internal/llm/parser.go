package llm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ledgerline/riskline/internal/model"
)

// Parsing defaults used when the model omits a tagged field. Parsing is
// total: malformed output always yields a well-formed result.
const (
	DefaultScore             = 0.5
	DefaultScoreReasoning    = "Risk assessment completed."
	DefaultCategory          = "Uncategorized"
	DefaultCategoryReasoning = "No reasoning provided."
	DefaultRecommendation    = "Manual review recommended"
	DefaultConfidence        = 0.7
	DefaultAction            = "Review this transaction for potential risk factors."
)

var scorePattern = regexp.MustCompile(`(1\.0|0\.\d+|1|0)`)

// SplitExplanation separates a cleaned explanation into rationale and
// recommended action.
func SplitExplanation(text string) (rationale, action string) {
	for _, delim := range []string{"Recommended action:", "Recommendation:"} {
		if idx := strings.Index(text, delim); idx >= 0 {
			return strings.TrimSpace(text[:idx]), strings.TrimSpace(text[idx+len(delim):])
		}
	}
	return strings.TrimSpace(text), DefaultAction
}

// ParseRiskScore extracts score, reasoning, and tier from tagged-line output.
// A missing tier is derived from the score using the system-wide thresholds.
func ParseRiskScore(text string) (score float64, reasoning string, level model.RiskLevel) {
	score = DefaultScore
	if raw, ok := extractField(text, "RISK_SCORE", "REASONING", "RISK_LEVEL"); ok {
		if m := scorePattern.FindString(raw); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil {
				score = clamp(v, 0, 1)
			}
		}
	}

	reasoning = DefaultScoreReasoning
	if raw, ok := extractField(text, "REASONING", "RISK_LEVEL"); ok && raw != "" {
		reasoning = raw
	}

	level = model.RiskLevelForScore(score)
	if raw, ok := extractField(text, "RISK_LEVEL"); ok {
		if fields := strings.Fields(raw); len(fields) > 0 {
			if parsed, ok := model.ParseRiskLevel(strings.ToUpper(fields[0])); ok {
				level = parsed
			}
		}
	}
	return score, reasoning, level
}

// ParseRiskCategory extracts category and reasoning from tagged-line output.
func ParseRiskCategory(text string) (category, reasoning string) {
	category = DefaultCategory
	if raw, ok := extractField(text, "RISK_CATEGORY", "REASONING"); ok && raw != "" {
		category = raw
	}
	reasoning = DefaultCategoryReasoning
	if raw, ok := extractField(text, "REASONING"); ok && raw != "" {
		reasoning = raw
	}
	return category, reasoning
}

// ParseCompliance extracts a full compliance determination from tagged-line
// output, defaulting every field.
func ParseCompliance(text string) (status model.ComplianceStatus, violations, regulations []string, recommendation string, confidence float64) {
	status = model.StatusReviewRequired
	if raw, ok := extractField(text, "COMPLIANCE_STATUS", "VIOLATIONS", "RELEVANT_REGULATIONS", "RECOMMENDATION", "CONFIDENCE"); ok {
		if fields := strings.Fields(raw); len(fields) > 0 {
			if parsed, ok := model.ParseComplianceStatus(strings.ToUpper(fields[0])); ok {
				status = parsed
			}
		}
	}

	violations = []string{}
	if raw, ok := extractField(text, "VIOLATIONS", "RELEVANT_REGULATIONS", "RECOMMENDATION", "CONFIDENCE"); ok {
		violations = parseListBlock(raw)
	}

	regulations = []string{}
	if raw, ok := extractField(text, "RELEVANT_REGULATIONS", "RECOMMENDATION", "CONFIDENCE"); ok {
		regulations = parseListBlock(raw)
	}

	recommendation = DefaultRecommendation
	if raw, ok := extractField(text, "RECOMMENDATION", "CONFIDENCE"); ok && raw != "" {
		recommendation = raw
	}

	confidence = DefaultConfidence
	if raw, ok := extractField(text, "CONFIDENCE"); ok {
		if m := regexp.MustCompile(`\d+(?:\.\d+)?`).FindString(raw); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil {
				confidence = clamp(v, 0, 1)
			}
		}
	}
	return status, violations, regulations, recommendation, confidence
}

// EstimateConfidence scores how confident an explanation looks based on how
// extreme the risk score is and how long the response ran.
func EstimateConfidence(riskScore float64, explanation string) float64 {
	var base float64
	switch {
	case riskScore >= 0.8 || riskScore <= 0.2:
		base = 0.9
	case riskScore >= 0.6 || riskScore <= 0.4:
		base = 0.75
	default:
		base = 0.6
	}

	if len(explanation) > 200 {
		base += 0.05
	} else if len(explanation) < 100 {
		base -= 0.05
	}

	return clamp(base, 0.5, 0.95)
}

// extractField finds `LABEL: value` (case-insensitive, label optionally
// preceded by a list number) and returns the trimmed text up to the first
// of the given end labels, or end of text.
func extractField(text, label string, endLabels ...string) (string, bool) {
	pattern := regexp.MustCompile(`(?i)(?:\d+\.\s*)?` + regexp.QuoteMeta(label) + `\s*:\s*`)
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]

	end := len(rest)
	for _, endLabel := range endLabels {
		endPattern := regexp.MustCompile(`(?i)(?:\d+\.\s*)?` + regexp.QuoteMeta(endLabel) + `\s*:`)
		if endLoc := endPattern.FindStringIndex(rest); endLoc != nil && endLoc[0] < end {
			end = endLoc[0]
		}
	}
	return strings.TrimSpace(rest[:end]), true
}

// parseListBlock splits a violations/regulations block into items, dropping
// bullets, empties, and "None" entries.
func parseListBlock(block string) []string {
	if strings.EqualFold(strings.TrimSpace(block), "none") {
		return []string{}
	}

	items := []string{}
	for _, part := range strings.FieldsFunc(block, func(r rune) bool {
		return r == '\n' || r == ';'
	}) {
		item := strings.TrimSpace(part)
		item = strings.TrimLeft(item, "-*• \t")
		item = regexp.MustCompile(`^\d+\.\s*`).ReplaceAllString(item, "")
		item = strings.TrimSpace(item)
		if item == "" || strings.EqualFold(item, "none") {
			continue
		}
		items = append(items, item)
	}
	return items
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
