package llm

import (
	"fmt"
	"log/slog"
)

// NewGenerator constructs a Generator for the configured provider. Missing
// credentials do not fail startup: the unavailable strategy is returned so
// the rest of the system degrades to rule-based answers.
func NewGenerator(cfg Config, logger *slog.Logger) (Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.Provider {
	case "watsonx", "":
		if cfg.APIKey == "" || cfg.ProjectID == "" {
			logger.Info("watsonx credentials not configured, using rule-based fallbacks")
			return UnavailableGenerator{}, nil
		}
		gen, err := newWatsonxClient(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("watsonx generator initialized", "model", gen.Model())
		return gen, nil

	case "openai":
		if cfg.APIKey == "" {
			logger.Info("OpenAI API key not configured, using rule-based fallbacks")
			return UnavailableGenerator{}, nil
		}
		gen, err := newOpenAIClient(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("OpenAI generator initialized", "model", gen.Model())
		return gen, nil

	case "none", "mock":
		return UnavailableGenerator{}, nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
