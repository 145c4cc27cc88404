package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/infrastructure/resilience"
	"github.com/kirillkom/strive-toolkit-cli/internal/observability/metrics"
)

// Client is the transport gateway to the generation backend. It issues one
// network attempt per call and classifies every success as either a
// structured payload or a binary artifact, based solely on the response's
// declared content type.
type Client struct {
	baseURL    string
	httpClient *http.Client
	guard      *resilience.Guard
	metrics    *metrics.ClientMetrics
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithOptions(baseURL, timeout, Options{})
}

type Options struct {
	Guard      *resilience.Guard
	Metrics    *metrics.ClientMetrics
	HTTPClient *http.Client
}

func NewWithOptions(baseURL string, timeout time.Duration, options Options) *Client {
	httpClient := options.HTTPClient
	if httpClient == nil {
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	guard := options.Guard
	if guard == nil {
		guard = resilience.NewGuard(resilience.Config{})
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		guard:      guard,
		metrics:    options.Metrics,
	}
}

// SendJSON sends a JSON request body (or none, for nil payload) and returns
// the classified response.
func (c *Client) SendJSON(ctx context.Context, method, path string, payload any) (*domain.BackendResponse, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, operationName(path))
}

// UploadFile posts content as the multipart field "file", matching the
// backend's upload endpoints.
func (c *Client) UploadFile(ctx context.Context, path, filename string, content io.Reader) (*domain.BackendResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, fmt.Errorf("buffer upload payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req, operationName(path))
}

func operationName(path string) string {
	return strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
}
