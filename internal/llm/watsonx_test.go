package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatsonxGenerate(t *testing.T) {
	var sawAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-key", r.FormValue("apikey"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/ml/v1/text/generation", func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ibm/granite-3-2-8b-instruct", body["model_id"])
		assert.Equal(t, "proj-1", body["project_id"])
		params, ok := body["parameters"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "greedy", params["decoding_method"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"model_id": "ibm/granite-3-2-8b-instruct",
			"results": []map[string]any{
				{"generated_text": "RISK_SCORE: 0.64", "generated_token_count": 8},
			},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gen, err := newWatsonxClient(Config{
		Provider:  "watsonx",
		APIKey:    "test-key",
		ProjectID: "proj-1",
		URL:       server.URL,
	})
	require.NoError(t, err)

	client := gen.(*watsonxClient)
	client.tokenURL = server.URL + "/identity/token"

	text, err := client.Generate(context.Background(), "score this")
	require.NoError(t, err)
	assert.Equal(t, "RISK_SCORE: 0.64", text)
	assert.Equal(t, "Bearer tok-123", sawAuth)

	// Second call reuses the cached IAM token.
	_, err = client.Generate(context.Background(), "again")
	require.NoError(t, err)
}

func TestWatsonxGenerateAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/identity/token", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/ml/v1/text/generation", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"errors":[{"message":"model overloaded"}]}`, http.StatusServiceUnavailable)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	gen, err := newWatsonxClient(Config{APIKey: "k", ProjectID: "p", URL: server.URL})
	require.NoError(t, err)
	client := gen.(*watsonxClient)
	client.tokenURL = server.URL + "/identity/token"

	_, err = client.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestNewWatsonxClientValidation(t *testing.T) {
	_, err := newWatsonxClient(Config{ProjectID: "p"})
	assert.Error(t, err)

	_, err = newWatsonxClient(Config{APIKey: "k"})
	assert.Error(t, err)
}

func TestUnavailableGenerator(t *testing.T) {
	gen := UnavailableGenerator{}
	assert.False(t, gen.Available())

	_, err := gen.Generate(context.Background(), "anything")
	assert.Error(t, err)
}
