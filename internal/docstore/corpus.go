package docstore

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/riskline/internal/model"
)

// corpusEntry is one built-in compliance document used for mock chunking.
type corpusEntry struct {
	name     string
	passages []string
}

// mockCorpus is the deterministic compliance corpus synthesized when no
// converter is available. Entries are matched against filenames; the
// first entry doubles as the default content.
var mockCorpus = []corpusEntry{
	{
		name: "AML Policy",
		passages: []string{
			"Anti-Money Laundering (AML) Policy: All financial institutions must implement robust AML controls. Transactions exceeding $10,000 USD require enhanced due diligence (EDD). High-risk jurisdictions include countries with weak regulatory frameworks or known for financial crime.",
			"Customer Due Diligence (CDD): Financial institutions must verify customer identity, understand the nature of their business, and assess the purpose of transactions. Enhanced due diligence is required for politically exposed persons (PEPs) and high-risk countries.",
			"Suspicious Activity Reporting (SAR): Any transaction that appears unusual or lacks clear economic rationale must be reported to the Financial Intelligence Unit (FIU) within 24 hours. Patterns indicating potential money laundering include structuring, rapid movement of funds, and transactions with sanctioned entities.",
		},
	},
	{
		name: "KYC Guidelines",
		passages: []string{
			"Know Your Customer (KYC) Requirements: Before establishing a business relationship, institutions must collect and verify: full legal name, date of birth, residential address, government-issued identification, and source of funds. For corporate clients, beneficial ownership must be identified.",
			"Risk-Based Approach: Customer risk ratings should be assigned based on: country of residence, transaction volume, nature of business, and expected account activity. High-risk customers require more frequent monitoring and periodic review.",
			"Ongoing Monitoring: All customer relationships must be subject to continuous monitoring. Unusual patterns, significant deviations from expected behavior, or changes in risk profile trigger immediate review and potential escalation.",
		},
	},
	{
		name: "Sanctions Compliance",
		passages: []string{
			"Sanctions Screening: All transactions must be screened against OFAC, UN, EU, and local sanctions lists before processing. Real-time screening is required for wire transfers and cross-border payments.",
			"Country Risk Assessment: Transactions involving high-risk jurisdictions (e.g., Iran, North Korea, Syria) are prohibited. Transactions with medium-risk countries require additional compliance checks and senior management approval.",
			"Embargo Enforcement: Financial institutions must block and report any transactions involving sanctioned individuals, entities, or countries. Penalties for violations include fines up to $1 million and criminal prosecution.",
		},
	},
}

const defaultCorpusName = "General Compliance"

// mockChunks synthesizes chunks from the built-in compliance corpus. The
// corpus entry is picked by matching the entry name (lowercased, spaces
// replaced by underscores) against the filename; unmatched filenames get
// the AML Policy passages tagged with the generic source name.
func (s *Store) mockChunks(documentID, filename string) []model.Chunk {
	source := defaultCorpusName
	passages := mockCorpus[0].passages

	lower := strings.ToLower(filename)
	for _, entry := range mockCorpus {
		key := strings.ReplaceAll(strings.ToLower(entry.name), " ", "_")
		if strings.Contains(lower, key) {
			source = entry.name
			passages = entry.passages
			break
		}
	}

	chunks := make([]model.Chunk, 0, len(passages))
	for i, text := range passages {
		page := i + 1
		chunks = append(chunks, model.Chunk{
			ID:               uuid.New().String(),
			DocumentID:       documentID,
			Text:             text,
			PageNumber:       &page,
			ExtractionMethod: model.ExtractionMock,
			Source:           source,
			CreatedAt:        time.Now(),
		})
	}
	return chunks
}
