package plaid

import (
	"testing"

	"github.com/plaid/plaid-go/v20/plaid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid sandbox",
			cfg:  Config{ClientID: "id", Secret: "sec", AccessToken: "tok", Environment: "sandbox"},
		},
		{
			name:    "missing client ID",
			cfg:     Config{Secret: "sec", AccessToken: "tok", Environment: "sandbox"},
			wantErr: "client ID",
		},
		{
			name:    "missing secret",
			cfg:     Config{ClientID: "id", AccessToken: "tok", Environment: "sandbox"},
			wantErr: "secret",
		},
		{
			name:    "missing access token",
			cfg:     Config{ClientID: "id", Secret: "sec", Environment: "sandbox"},
			wantErr: "access token",
		},
		{
			name:    "bad environment",
			cfg:     Config{ClientID: "id", Secret: "sec", AccessToken: "tok", Environment: "staging"},
			wantErr: "environment",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewClientDefaultsCountry(t *testing.T) {
	client, err := NewClient(Config{ClientID: "id", Secret: "sec", AccessToken: "tok", Environment: "sandbox"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "US", client.defaultCountry)
}

func TestToCaseSkipsZeroAmount(t *testing.T) {
	client, err := NewClient(Config{ClientID: "id", Secret: "sec", AccessToken: "tok", Environment: "sandbox"}, nil)
	require.NoError(t, err)

	tx := plaid.Transaction{}
	tx.SetDate("2024-01-15")
	tx.SetName("VOIDED ENTRY")
	tx.SetAmount(0)
	_, ok := client.toCase(tx)
	assert.False(t, ok)

	tx.SetAmount(-1250.50)
	c, ok := client.toCase(tx)
	require.True(t, ok)
	assert.NoError(t, c.Validate())
	assert.Equal(t, 1250.50, c.Amount)
}
