// Package plaid pulls transactions from the Plaid API as review cases.
package plaid

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/plaid/plaid-go/v20/plaid"

	"github.com/ledgerline/riskline/internal/engine"
	"github.com/ledgerline/riskline/internal/model"
)

// Config holds Plaid API configuration.
type Config struct {
	ClientID    string
	Secret      string
	Environment string // sandbox or production
	AccessToken string

	// DefaultCountry is used when a transaction carries no location.
	DefaultCountry string
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return fmt.Errorf("plaid client ID is required")
	}
	if c.Secret == "" {
		return fmt.Errorf("plaid secret is required")
	}
	if c.AccessToken == "" {
		return fmt.Errorf("plaid access token is required")
	}
	switch c.Environment {
	case "sandbox", "production":
		return nil
	default:
		return fmt.Errorf("invalid Plaid environment: must be sandbox or production")
	}
}

// Client fetches transactions and converts them to rule-scored cases.
type Client struct {
	client         *plaid.APIClient
	logger         *slog.Logger
	accessToken    string
	defaultCountry string
}

// NewClient creates a Plaid client with the given configuration.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.ClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.Secret)
	switch cfg.Environment {
	case "sandbox":
		configuration.UseEnvironment(plaid.Sandbox)
	case "production":
		configuration.UseEnvironment(plaid.Production)
	}

	country := cfg.DefaultCountry
	if country == "" {
		country = "US"
	}

	return &Client{
		client:         plaid.NewAPIClient(configuration),
		accessToken:    cfg.AccessToken,
		defaultCountry: country,
		logger:         logger.With("component", "plaid"),
	}, nil
}

// FetchCases fetches all transactions in the date range and maps each to a
// rule-scored case.
func (c *Client) FetchCases(ctx context.Context, startDate, endDate time.Time) ([]model.Case, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date must be before end date")
	}

	c.logger.Info("fetching transactions from Plaid",
		"start_date", startDate.Format("2006-01-02"),
		"end_date", endDate.Format("2006-01-02"))

	var all []plaid.Transaction
	offset := int32(0)
	const pageSize = int32(500) // Plaid's max page size

	for {
		request := plaid.NewTransactionsGetRequest(
			c.accessToken,
			startDate.Format("2006-01-02"),
			endDate.Format("2006-01-02"),
		)
		request.SetOptions(plaid.TransactionsGetRequestOptions{
			Count:  plaid.PtrInt32(pageSize),
			Offset: plaid.PtrInt32(offset),
		})

		resp, _, err := c.client.PlaidApi.TransactionsGet(ctx).TransactionsGetRequest(*request).Execute()
		if err != nil {
			if plaidErr := extractPlaidError(err); plaidErr != nil {
				return nil, fmt.Errorf("plaid API error: %s - %s", plaidErr.ErrorCode, plaidErr.ErrorMessage)
			}
			return nil, fmt.Errorf("failed to fetch transactions: %w", err)
		}

		page := resp.GetTransactions()
		all = append(all, page...)

		c.logger.Debug("fetched transaction batch", "count", len(page), "offset", offset)

		if len(page) < int(pageSize) {
			break
		}
		offset += pageSize
	}

	c.logger.Info("fetched all transactions", "count", len(all))

	cases := make([]model.Case, 0, len(all))
	for _, tx := range all {
		ca, ok := c.toCase(tx)
		if !ok {
			continue
		}
		cases = append(cases, ca)
	}
	return cases, nil
}

// toCase converts one transaction to a rule-scored case. Zero-amount
// transactions are dropped so they never fail case validation downstream.
func (c *Client) toCase(tx plaid.Transaction) (model.Case, bool) {
	date, err := time.Parse("2006-01-02", tx.GetDate())
	if err != nil {
		c.logger.Error("failed to parse transaction date", "date", tx.GetDate(), "error", err)
		date = time.Now()
	}

	name := tx.GetMerchantName()
	if name == "" {
		name = tx.GetName()
	}
	if name == "" {
		name = "Unknown counterparty"
	}

	country := c.defaultCountry
	if loc, ok := tx.GetLocationOk(); ok && loc.GetCountry() != "" {
		country = loc.GetCountry()
	}

	amount := tx.GetAmount()
	if amount < 0 {
		amount = -amount
	}
	amount = math.Round(amount*100) / 100
	if amount == 0 {
		return model.Case{}, false
	}

	score, _ := engine.RuleBasedScore(amount, country)

	return model.Case{
		ID:           uuid.NewString(),
		CustomerName: name,
		Amount:       amount,
		Country:      country,
		RiskScore:    score,
		Status:       model.StatusNew,
		CreatedAt:    date,
	}, true
}

func extractPlaidError(err error) *plaid.PlaidError {
	plaidErr, convErr := plaid.ToPlaidError(err)
	if convErr != nil {
		return nil
	}
	return &plaidErr
}
