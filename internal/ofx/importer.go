// Package ofx imports flagged transactions from OFX/QFX bank statements as
// review cases.
package ofx

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"

	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/model"
)

// Importer parses OFX/QFX statements into rule-scored cases.
type Importer struct {
	// country is assigned to every imported case; OFX statements carry no
	// counterparty jurisdiction.
	country string
	logger  *slog.Logger
}

// NewImporter creates an importer that tags cases with the given country.
func NewImporter(country string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if country == "" {
		country = "US"
	}
	return &Importer{country: strings.ToUpper(country), logger: logger}
}

// preprocess fixes common formatting issues in real-world OFX exports:
// leading whitespace, mixed-case SEVERITY values, and SGML-style tags
// missing their closing bracket.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// Import parses the statement and returns one case per transaction, scored
// with the rule-based heuristic.
func (i *Importer) Import(reader io.Reader) ([]model.Case, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var cases []model.Case
	var bankStmts, ccStmts, skipped int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				c, ok := i.toCase(tx)
				if !ok {
					skipped++
					continue
				}
				cases = append(cases, c)
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, tx := range stmt.BankTranList.Transactions {
				c, ok := i.toCase(tx)
				if !ok {
					skipped++
					continue
				}
				cases = append(cases, c)
			}
		}
	}

	i.logger.Info("imported OFX statement",
		"cases", len(cases),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts,
		"skipped", skipped)

	return cases, nil
}

// toCase converts one statement line to a rule-scored case. Zero-amount
// lines (balance markers, voided entries) are dropped: they carry no risk
// signal and would fail case validation when seeded.
func (i *Importer) toCase(tx ofxgo.Transaction) (model.Case, bool) {
	amount, _ := tx.TrnAmt.Float64()
	if amount < 0 {
		amount = -amount
	}
	amount = math.Round(amount*100) / 100
	if amount == 0 {
		return model.Case{}, false
	}

	score, _ := engine.RuleBasedScore(amount, i.country)

	return model.Case{
		ID:           uuid.NewString(),
		CustomerName: counterpartyName(tx),
		Amount:       amount,
		Country:      i.country,
		RiskScore:    score,
		Status:       model.StatusNew,
		CreatedAt:    tx.DtPosted.Time,
	}, true
}

// counterpartyName extracts a usable name from OFX payee/name/memo fields.
func counterpartyName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericDescription(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"WIRE TRANSFER ",
		"CHECK CARD ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if name == "" {
		name = "Unknown counterparty"
	}
	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(name) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "WIRE":
		return true
	default:
		return false
	}
}
