package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerline/riskline/internal/cli"
	"github.com/ledgerline/riskline/internal/config"
	"github.com/ledgerline/riskline/internal/usage"
)

func usageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show token spend against the budget",
		RunE:  runUsage,
	}

	cmd.Flags().Bool("reset", false, "discard all recorded usage")
	return cmd
}

func runUsage(cmd *cobra.Command, _ []string) error {
	settings := config.FromViper()
	if err := settings.Validate(); err != nil {
		return err
	}

	var store usage.Store
	switch settings.Budget.LedgerBackend {
	case "sqlite":
		s, err := usage.NewSQLiteStore(settings.Budget.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to open usage ledger: %w", err)
		}
		defer s.Close()
		store = s
	default:
		s, err := usage.NewJSONStore(settings.Budget.LedgerPath)
		if err != nil {
			return fmt.Errorf("failed to open usage ledger: %w", err)
		}
		store = s
	}

	tracker, err := usage.NewTracker(store, settings.Budget.LimitUSD, slog.Default())
	if err != nil {
		return err
	}

	if reset, _ := cmd.Flags().GetBool("reset"); reset {
		if err := tracker.Reset(); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Usage ledger reset"))
		return nil
	}

	s := tracker.Summary()
	content := fmt.Sprintf(
		"Budget:    $%.2f\nSpent:     $%.4f (%.2f%%)\nRemaining: $%.4f\nTokens:    %d across %d requests\nSince:     %s",
		s.TotalBudgetUSD, s.SpentUSD, s.PercentageUsed, s.RemainingUSD,
		s.TokensUsed, s.RequestsCount, s.StartedAt.Format("2006-01-02 15:04"))
	fmt.Println(cli.RenderBox("Token usage", content))

	if w := tracker.Warning(); w != nil {
		switch w.Severity {
		case usage.SeverityCritical:
			fmt.Println(cli.FormatError(w.Message))
		case usage.SeverityWarning:
			fmt.Println(cli.FormatWarning(w.Message))
		default:
			fmt.Println(cli.FormatInfo(w.Message))
		}
	}
	return nil
}
