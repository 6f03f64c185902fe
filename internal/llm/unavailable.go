package llm

import (
	"context"
	"fmt"

	"github.com/ledgerline/riskline/internal/common"
)

// UnavailableGenerator is the strategy selected when no provider is
// configured. Every call fails with ErrServiceUnavailable so callers fall
// back to rule-based answers.
type UnavailableGenerator struct{}

func (UnavailableGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("text generation requested: %w", common.ErrServiceUnavailable)
}

func (UnavailableGenerator) Available() bool { return false }

func (UnavailableGenerator) Model() string { return "unavailable" }
