package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ledgerline/riskline/internal/casestore"
	"github.com/ledgerline/riskline/internal/cli"
	"github.com/ledgerline/riskline/internal/config"
	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/report"
	"github.com/ledgerline/riskline/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a compliance report to Google Sheets",
		Long: `Aggregate the case corpus into a compliance report and write it to a
Google Sheets spreadsheet. Cases come from cases.seed_file when set,
otherwise from the built-in demo corpus.`,
		RunE: runExport,
	}

	cmd.Flags().String("spreadsheet-id", "", "existing spreadsheet to overwrite (overrides sheets.spreadsheet_id)")
	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	settings := config.FromViper()

	cases := casestore.New()
	if settings.Cases.SeedFile != "" {
		if _, err := cases.SeedFromFile(settings.Cases.SeedFile); err != nil {
			return fmt.Errorf("failed to load cases from %s: %w", settings.Cases.SeedFile, err)
		}
	} else if err := cases.Seed(); err != nil {
		return fmt.Errorf("failed to seed demo cases: %w", err)
	}

	all := cases.List()
	r := report.Aggregate(all)
	r.Summary = engine.FallbackReportSummary(
		r.TotalCases, r.HighRiskCount, r.MediumRiskCount, r.LowRiskCount, r.TotalAmount).Summary

	sheetCfg := sheets.Config{
		ClientID:           settings.Sheets.ClientID,
		ClientSecret:       settings.Sheets.ClientSecret,
		RefreshToken:       settings.Sheets.RefreshToken,
		ServiceAccountPath: settings.Sheets.ServiceAccountPath,
		SpreadsheetID:      settings.Sheets.SpreadsheetID,
		SpreadsheetName:    settings.Sheets.SpreadsheetName,
	}
	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		sheetCfg.SpreadsheetID = id
	}

	exporter, err := sheets.NewExporter(cmd.Context(), sheetCfg, slog.Default())
	if err != nil {
		return err
	}

	url, err := exporter.Export(cmd.Context(), r, all)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatTitle("Compliance report exported"))
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("%d cases exported", r.TotalCases)))
	fmt.Println(cli.SubtleStyle.Render(url))
	return nil
}
