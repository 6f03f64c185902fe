package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/ledgerline/riskline/internal/model"
)

// Exporter writes a compliance report and its cases to a spreadsheet.
type Exporter struct {
	service *sheets.Service
	config  Config
	logger  *slog.Logger
}

// NewExporter authenticates and returns an exporter.
func NewExporter(ctx context.Context, cfg Config, logger *slog.Logger) (*Exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	service, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		service: service,
		config:  cfg.withDefaults(),
		logger:  logger.With("component", "sheets"),
	}, nil
}

func newSheetsService(ctx context.Context, cfg Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if cfg.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(cfg.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsScope},
		}
		tokenSource = oauthConfig.TokenSource(ctx, &oauth2.Token{
			RefreshToken: cfg.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

// Export writes the report header and one row per case, returning the
// spreadsheet ID.
func (e *Exporter) Export(ctx context.Context, r model.Report, cases []model.Case) (string, error) {
	spreadsheetID, err := e.resolveSpreadsheet(ctx)
	if err != nil {
		return "", err
	}

	if _, err := e.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("unable to clear sheet: %w", err)
	}

	values := buildRows(r, cases)
	valueRange := &sheets.ValueRange{Values: values}
	_, err = e.service.Spreadsheets.Values.
		Update(spreadsheetID, fmt.Sprintf("A1:F%d", len(values)), valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to write report data: %w", err)
	}

	e.logger.Info("exported compliance report",
		"spreadsheet_id", spreadsheetID,
		"cases", len(cases),
		"rows_written", len(values))
	return spreadsheetID, nil
}

func (e *Exporter) resolveSpreadsheet(ctx context.Context) (string, error) {
	if e.config.SpreadsheetID != "" {
		if _, err := e.service.Spreadsheets.Get(e.config.SpreadsheetID).Context(ctx).Do(); err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", e.config.SpreadsheetID, err)
		}
		return e.config.SpreadsheetID, nil
	}

	created, err := e.service.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: e.config.SpreadsheetName},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}
	return created.SpreadsheetId, nil
}

// buildRows lays out the report summary block followed by a case table.
func buildRows(r model.Report, cases []model.Case) [][]any {
	values := [][]any{
		{"Compliance Report"},
		{"Period", r.PeriodStart.Format("2006-01-02"), "to", r.PeriodEnd.Format("2006-01-02")},
		{"Total Cases", r.TotalCases},
		{"High Risk", r.HighRiskCount, "Medium Risk", r.MediumRiskCount, "Low Risk", r.LowRiskCount},
		{"Average Risk Score", r.AvgRisk},
		{"Total Amount (USD)", r.TotalAmount},
		{"Summary", r.Summary},
		{},
		{"Case ID", "Customer", "Amount (USD)", "Country", "Risk Score", "Status"},
	}

	for _, c := range cases {
		values = append(values, []any{
			c.ID, c.CustomerName, c.Amount, c.Country, c.RiskScore, string(c.Status),
		})
	}
	return values
}
