package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgerline/riskline/internal/cli"
	"github.com/ledgerline/riskline/internal/config"
	"github.com/ledgerline/riskline/internal/model"
	"github.com/ledgerline/riskline/internal/ofx"
	"github.com/ledgerline/riskline/internal/plaid"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import flagged transactions from OFX/QFX files or Plaid",
		Long: `Import transactions as risk cases. Each transaction is scored with the
rule-based model on import. The resulting cases are written as a JSON
export that 'riskline serve' can seed from via cases.seed_file.

Examples:
  # Import bank statement exports
  riskline import ~/Downloads/statement_*.qfx

  # Pull the last 30 days from Plaid instead
  riskline import --plaid --days 30`,
		RunE: runImport,
	}

	cmd.Flags().StringP("output", "o", "cases.json", "path for the JSON case export")
	cmd.Flags().String("country", "US", "default country for transactions without location data")
	cmd.Flags().Bool("plaid", false, "fetch transactions from Plaid instead of local files")
	cmd.Flags().Int("days", 30, "lookback window in days for --plaid")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	country, _ := cmd.Flags().GetString("country")
	usePlaid, _ := cmd.Flags().GetBool("plaid")
	days, _ := cmd.Flags().GetInt("days")

	var cases []model.Case
	var err error
	if usePlaid {
		cases, err = fetchPlaidCases(cmd, country, days)
	} else {
		cases, err = importOFXFiles(args, country)
	}
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found, nothing to write"))
		return nil
	}

	data, err := json.MarshalIndent(cases, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cases: %w", err)
	}
	if err := os.WriteFile(output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	high, medium, low := 0, 0, 0
	for _, c := range cases {
		switch c.RiskLevel() {
		case model.RiskLevelHigh:
			high++
		case model.RiskLevelMedium:
			medium++
		default:
			low++
		}
	}

	fmt.Println(cli.FormatTitle("Import complete"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d cases written to %s", len(cases), output)))
	fmt.Printf("  %s: %d  %s: %d  %s: %d\n",
		cli.FormatRiskLevel(model.RiskLevelHigh), high,
		cli.FormatRiskLevel(model.RiskLevelMedium), medium,
		cli.FormatRiskLevel(model.RiskLevelLow), low)
	return nil
}

func importOFXFiles(patterns []string, country string) ([]model.Case, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no input files given (or use --plaid)")
	}

	// Expand globs and collect all files
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			files = append(files, matches...)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing statements...[reset]"))

	importer := ofx.NewImporter(country, slog.Default())
	var cases []model.Case
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			slog.Error("Failed to open file", "file", path, "error", err)
			_ = bar.Add(1)
			continue
		}
		imported, err := importer.Import(f)
		f.Close()
		if err != nil {
			slog.Error("Failed to parse OFX file", "file", path, "error", err)
			_ = bar.Add(1)
			continue
		}
		cases = append(cases, imported...)
		_ = bar.Add(1)
	}
	fmt.Fprintln(os.Stderr)
	return cases, nil
}

func fetchPlaidCases(cmd *cobra.Command, country string, days int) ([]model.Case, error) {
	settings := config.FromViper()

	client, err := plaid.NewClient(plaid.Config{
		ClientID:       settings.Plaid.ClientID,
		Secret:         settings.Plaid.Secret,
		Environment:    settings.Plaid.Environment,
		AccessToken:    settings.Plaid.AccessToken,
		DefaultCountry: country,
	}, slog.Default())
	if err != nil {
		return nil, err
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	return client.FetchCases(cmd.Context(), start, end)
}
