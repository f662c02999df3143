package inference

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client is the public entrypoint for talking to the inference service.
//
// It hides HTTP details from the application layer. The zero value is not
// usable; construct with NewClient.
type Client struct {
	baseURL    string
	token      string
	dim        int
	httpClient *http.Client
}

// NewClient constructs a Client from Config. It validates the config but
// performs no network I/O; reachability is probed separately via HealthCheck.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inference: invalid config: %w", err)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.ServiceToken,
		dim:        cfg.EmbeddingDim,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutS) * time.Second},
	}, nil
}

// Dimension returns the embedding vector length this client expects.
func (c *Client) Dimension() int {
	return c.dim
}

// HealthCheck performs a single lightweight probe against GET /health.
// It does not retry and returns false on any network error or non-success
// status rather than returning an error.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// ExtractText sends raw file bytes and the original filename to the service
// and returns the extracted text. Empty extracted text is a valid result.
//
// Failures are reported as ErrExtraction; a call abandoned because the
// context deadline or the client timeout elapsed additionally matches
// ErrTimeout.
func (c *Client) ExtractText(ctx context.Context, data []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", wrapKind(ErrExtraction, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", wrapKind(ErrExtraction, err)
	}
	if err := writer.Close(); err != nil {
		return "", wrapKind(ErrExtraction, err)
	}

	var parsed struct {
		Text string `json:"text"`
	}

	err = c.post(ctx, c.baseURL+"/extract", writer.FormDataContentType(), &buf, &parsed)
	if err != nil {
		return "", wrapKind(ErrExtraction, err)
	}

	return parsed.Text, nil
}

// GenerateEmbedding sends text to the service and returns its embedding
// vector. Text that is empty after trimming fails immediately with
// ErrEmbedding wrapping ErrEmptyText, without contacting the service.
//
// The returned vector length must equal the configured embedding dimension;
// a mismatched length is reported as a DimensionMismatchError, which the
// pipeline treats as fatal.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %w", ErrEmbedding, ErrEmptyText)
	}

	var parsed struct {
		Embedding []float64 `json:"embedding"`
	}

	if err := c.postJSON(ctx, c.baseURL+"/embed", map[string]string{"text": text}, &parsed); err != nil {
		return nil, wrapKind(ErrEmbedding, err)
	}

	if len(parsed.Embedding) != c.dim {
		return nil, &DimensionMismatchError{Want: c.dim, Got: len(parsed.Embedding)}
	}

	return parsed.Embedding, nil
}
