package llm

import (
	"fmt"
	"strings"

	"github.com/ledgerline/riskline/internal/model"
)

// SystemRole is the shared preamble prepended to every task prompt.
const SystemRole = `You are a financial risk assessment expert specializing in anti-money laundering (AML) and fraud detection.
Your role is to analyze banking transactions and provide clear, actionable explanations for compliance officers.

Guidelines:
- Be concise but thorough (2-3 sentences)
- Focus on risk factors: amount, country, patterns
- Provide specific, actionable recommendations
- Use professional, clear language
- Consider both false positives and genuine risks`

// BuildExplanationPrompt asks for a rationale and recommended action for a
// scored transaction.
func BuildExplanationPrompt(customerName string, amount float64, country string, riskScore float64) string {
	level := model.RiskLevelForScore(riskScore)
	return fmt.Sprintf(`Analyze this banking transaction for risk:

Customer: %s
Amount: $%s USD
Country: %s
Risk Score: %.2f (%s RISK)

Provide:
1. Brief explanation of why this transaction has a %s risk score
2. Key risk factors (amount, country, patterns)
3. Recommended action (approve, review, escalate)

Keep your response concise (2-3 sentences per section).`,
		customerName, FormatUSD(amount), country, riskScore, level, level)
}

// BuildRiskScoringPrompt asks for a numeric score, reasoning, and tier label
// in strict tagged-line format.
func BuildRiskScoringPrompt(customerName string, amount float64, country, transactionType string) string {
	if transactionType == "" {
		transactionType = "wire transfer"
	}
	return fmt.Sprintf(`Analyze this banking transaction and calculate a risk score:

Customer: %s
Transaction Amount: $%s USD
Country: %s
Transaction Type: %s

Calculate a risk score between 0.0 (no risk) and 1.0 (very high risk) based on:
1. Transaction amount (large amounts = higher risk)
2. Country risk profile (high-risk jurisdictions)
3. Typical patterns for this transaction type
4. AML/fraud indicators

Provide your response in EXACTLY this format:
RISK_SCORE: [number between 0.0 and 1.0]
REASONING: [2-3 sentence explanation of key risk factors]
RISK_LEVEL: [LOW/MEDIUM/HIGH]

Example:
RISK_SCORE: 0.75
REASONING: Large transaction amount ($50,000) to a high-risk jurisdiction raises AML concerns. The country has known issues with financial crime. Additional due diligence is recommended.
RISK_LEVEL: HIGH`,
		customerName, FormatUSD(amount), country, transactionType)
}

// BuildRiskCategoryPrompt asks for classification into the closed category
// set plus reasoning.
func BuildRiskCategoryPrompt(customerName string, amount float64, country, transactionType string) string {
	if transactionType == "" {
		transactionType = "wire transfer"
	}
	return fmt.Sprintf(`Classify the risk category of this banking transaction:

Customer: %s
Transaction Amount: $%s USD
Country: %s
Transaction Type: %s

Possible risk categories:
1. Fraud
2. Money Laundering
3. Sanctions Violation

Provide your response in EXACTLY this format:
RISK_CATEGORY: [Fraud/Money Laundering/Sanctions Violation/None]
REASONING: [2-3 sentence explanation of key risk factors]`,
		customerName, FormatUSD(amount), country, transactionType)
}

// BuildReportSummaryPrompt asks for a short executive summary over aggregate
// report statistics.
func BuildReportSummaryPrompt(totalCases, highRisk, mediumRisk, lowRisk int, avgRisk, totalAmount float64) string {
	return fmt.Sprintf(`Generate an executive summary for this risk assessment report:

Total Cases: %d
Total Transaction Volume: $%s USD
Average Risk Score: %.2f

Risk Distribution:
- High Risk (>=0.7): %d cases
- Medium Risk (0.4-0.69): %d cases
- Low Risk (<0.4): %d cases

Provide a brief (2-3 sentence) executive summary highlighting:
1. Overall risk assessment
2. Key concerns or patterns
3. Recommended priority actions

Be concise and actionable.`,
		totalCases, FormatUSD(totalAmount), avgRisk, highRisk, mediumRisk, lowRisk)
}

// ComplianceSignals are optional behavioral inputs to the compliance prompt.
type ComplianceSignals struct {
	AccountAgeDays  int
	RecentTxCount7d int
}

// BuildCompliancePrompt asks for a structured compliance determination
// grounded in retrieved policy document text.
func BuildCompliancePrompt(customerName string, amount float64, country, transactionType, documentContext string, signals *ComplianceSignals) string {
	var b strings.Builder

	fmt.Fprintf(&b, `Analyze this banking transaction for regulatory compliance using the policy excerpts below:

Customer: %s
Transaction Amount: $%s USD
Country: %s
Transaction Type: %s
`, customerName, FormatUSD(amount), country, transactionType)

	if signals != nil {
		fmt.Fprintf(&b, "Account Age: %d days\nTransactions (last 7 days): %d\n", signals.AccountAgeDays, signals.RecentTxCount7d)
	}

	fmt.Fprintf(&b, `
Relevant policy documents:
%s

Based on the policy excerpts above, provide your response in EXACTLY this format:
COMPLIANCE_STATUS: [COMPLIANT/NON_COMPLIANT/REVIEW_REQUIRED]
VIOLATIONS: [list each violated requirement, or "None"]
RELEVANT_REGULATIONS: [list the policy sections that apply, or "None"]
RECOMMENDATION: [one actionable next step for the compliance officer]
CONFIDENCE: [number between 0.0 and 1.0]

Example:
COMPLIANCE_STATUS: REVIEW_REQUIRED
VIOLATIONS: Transaction exceeds the $10,000 enhanced due diligence threshold
RELEVANT_REGULATIONS: AML Policy section 2 (enhanced due diligence); KYC Guidelines section 1 (identity verification)
RECOMMENDATION: Hold the transaction pending source-of-funds documentation from the customer.
CONFIDENCE: 0.85`, documentContext)

	return b.String()
}

// FullPrompt prepends the shared system role to a task prompt.
func FullPrompt(userPrompt string) string {
	return SystemRole + "\n\n" + userPrompt
}

// Truncate caps a prompt to an approximate token budget using the chars/4
// heuristic, appending a visible truncation marker when cut.
func Truncate(prompt string, maxTokens int) string {
	maxChars := maxTokens * 4
	if len(prompt) <= maxChars {
		return prompt
	}
	return prompt[:maxChars-20] + "\n\n[Note: Response truncated]"
}

// FormatUSD renders an amount with thousands separators and two decimals,
// e.g. 12000 -> "12,000.00".
func FormatUSD(amount float64) string {
	s := fmt.Sprintf("%.2f", amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}
