package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsEchoedPrompt(t *testing.T) {
	raw := "The transaction looks suspicious due to the amount.\n\nPrompt: Analyze this banking transaction for risk"
	assert.Equal(t, "The transaction looks suspicious due to the amount.", Clean(raw))
}

func TestCleanMarkerPriorityOrder(t *testing.T) {
	// "Another example:" occurs first in the text, but "Example:" is
	// earlier in the marker list, so the cut happens at the later
	// "Example:" occurrence rather than the leftmost marker.
	raw := "Looks fine. Another example: one. Example: two."
	assert.Equal(t, "Looks fine. Another example: one.", Clean(raw))
}

func TestCleanStripsMetaPhrase(t *testing.T) {
	raw := "Here is the analysis: The amount is within normal bounds."
	assert.Equal(t, "The amount is within normal bounds.", Clean(raw))
}

func TestCleanRemovesEmptyListStubs(t *testing.T) {
	raw := "1. High amount raises concern.\n2.\n3. Country risk is low."
	got := Clean(raw)
	assert.Contains(t, got, "High amount raises concern.")
	assert.Contains(t, got, "Country risk is low.")
	assert.NotContains(t, got, "\n2.\n")
}

func TestCleanPlainText(t *testing.T) {
	assert.Equal(t, "All clear.", Clean("  All clear.  \n"))
	assert.Equal(t, "", Clean(""))
}
