package backend

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

const errorBodyLimit = 64 << 10

func (c *Client) do(req *http.Request, operation string) (*domain.BackendResponse, error) {
	start := time.Now()

	var result *domain.BackendResponse
	err := c.guard.Execute(req.Context(), operation, func(context.Context) error {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &domain.RequestError{Message: err.Error()}
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return newRequestError(resp)
		}

		result, err = classify(resp)
		return err
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.metrics.ObserveRequest(operation, outcome, time.Since(start))

	if err != nil {
		return nil, err
	}
	return result, nil
}

// classify splits a successful response on its declared content type: JSON
// becomes a structured payload, everything else an artifact. The request's
// output_format plays no part here; the backend alone decides what it sent.
func classify(resp *http.Response) (*domain.BackendResponse, error) {
	contentType := resp.Header.Get("Content-Type")
	mediaType := contentType
	if parsed, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = parsed
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.RequestError{StatusCode: resp.StatusCode, Message: "reading response body: " + err.Error()}
	}

	if strings.Contains(mediaType, "application/json") {
		if !json.Valid(body) {
			return nil, &domain.RequestError{StatusCode: resp.StatusCode, Message: "backend returned a malformed response"}
		}
		return &domain.BackendResponse{Structured: json.RawMessage(body)}, nil
	}

	return &domain.BackendResponse{
		Artifact: &domain.Artifact{
			Data:        body,
			MimeType:    mediaType,
			Disposition: resp.Header.Get("Content-Disposition"),
		},
	}, nil
}

// newRequestError prefers a structured error field, then the raw body text,
// then the protocol status text.
func newRequestError(resp *http.Response) *domain.RequestError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Error) != "" {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(payload.Error)}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return &domain.RequestError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &domain.RequestError{StatusCode: resp.StatusCode, Message: resp.Status}
}
