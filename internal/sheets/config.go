// Package sheets exports compliance reports to Google Sheets.
package sheets

import "fmt"

// Config holds authentication and destination settings for the exporter.
// Either a service account key file or an OAuth2 client with refresh token
// must be provided.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string

	// SpreadsheetID targets an existing spreadsheet; empty creates a new
	// one named SpreadsheetName.
	SpreadsheetID   string
	SpreadsheetName string
}

// Validate checks that one authentication method is fully configured.
func (c *Config) Validate() error {
	if c.ServiceAccountPath != "" {
		return nil
	}
	if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
		return fmt.Errorf("missing Google Sheets authentication: provide either a service account path or OAuth2 credentials")
	}
	return nil
}

// withDefaults fills in the default spreadsheet name.
func (c Config) withDefaults() Config {
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = "Compliance Report"
	}
	return c
}
