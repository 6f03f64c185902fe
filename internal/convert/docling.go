package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DoclingClient talks to a docling-serve instance over HTTP.
type DoclingClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewDoclingClient creates a converter backed by docling-serve at baseURL.
func NewDoclingClient(baseURL string) (*DoclingClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("docling base URL is required")
	}

	return &DoclingClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// Available reports true; a configured client is assumed reachable until
// a Convert call proves otherwise.
func (c *DoclingClient) Available() bool { return true }

type doclingResponse struct {
	Document struct {
		Pages []struct {
			Text   string `json:"text"`
			PageNo int    `json:"page_no"`
		} `json:"pages"`
	} `json:"document"`
	Status string `json:"status"`
}

// Convert uploads the file and returns the extracted page text.
func (c *DoclingClient) Convert(ctx context.Context, filePath string) (*Result, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("files", filepath.Base(filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err = io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1alpha/convert/file", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("conversion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read conversion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("converter error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed doclingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse conversion response: %w", err)
	}

	result := &Result{Pages: make([]Page, 0, len(parsed.Document.Pages))}
	for i, p := range parsed.Document.Pages {
		number := p.PageNo
		if number == 0 {
			number = i + 1
		}
		result.Pages = append(result.Pages, Page{Number: number, Text: p.Text})
	}

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("converter returned no pages")
	}
	return result, nil
}
