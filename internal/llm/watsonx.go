package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultWatsonxURL   = "https://us-south.ml.cloud.ibm.com"
	defaultWatsonxModel = "ibm/granite-3-2-8b-instruct"
	watsonxAPIVersion   = "2024-05-01"
	iamTokenURL         = "https://iam.cloud.ibm.com/identity/token"
)

// watsonxClient implements Generator against the IBM watsonx.ai text
// generation API. IAM bearer tokens are exchanged from the API key and
// cached until shortly before expiry.
type watsonxClient struct {
	httpClient  *http.Client
	apiKey      string
	projectID   string
	baseURL     string
	tokenURL    string
	model       string
	temperature float64
	maxTokens   int

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// newWatsonxClient creates a watsonx.ai client.
func newWatsonxClient(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("watsonx API key is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("watsonx project ID is required")
	}

	baseURL := cfg.URL
	if baseURL == "" {
		baseURL = defaultWatsonxURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultWatsonxModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 300
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &watsonxClient{
		apiKey:      cfg.APIKey,
		projectID:   cfg.ProjectID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenURL:    iamTokenURL,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

func (c *watsonxClient) Available() bool { return true }

func (c *watsonxClient) Model() string { return c.model }

// Generate sends a greedy-decoding text generation request.
func (c *watsonxClient) Generate(ctx context.Context, prompt string) (string, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate with watsonx: %w", err)
	}

	requestBody := map[string]any{
		"model_id":   c.model,
		"project_id": c.projectID,
		"input":      prompt,
		"parameters": map[string]any{
			"decoding_method":    "greedy",
			"max_new_tokens":     c.maxTokens,
			"min_new_tokens":     50,
			"temperature":        c.temperature,
			"top_k":              50,
			"top_p":              0.9,
			"repetition_penalty": 1.1,
		},
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := c.baseURL + "/ml/v1/text/generation?version=" + watsonxAPIVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watsonx API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response watsonxResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if len(response.Results) == 0 {
		return "", fmt.Errorf("no generation results returned")
	}

	return response.Results[0].GeneratedText, nil
}

// bearerToken returns a cached IAM access token, refreshing it when it is
// within a minute of expiry.
func (c *watsonxClient) bearerToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-time.Minute)) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ibm:params:oauth:grant-type:apikey")
	form.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("IAM token error (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("empty access token returned")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// watsonxResponse represents the watsonx.ai generation response structure.
type watsonxResponse struct {
	ModelID string `json:"model_id"`
	Results []struct {
		GeneratedText       string `json:"generated_text"`
		GeneratedTokenCount int    `json:"generated_token_count"`
		InputTokenCount     int    `json:"input_token_count"`
		StopReason          string `json:"stop_reason"`
	} `json:"results"`
}
