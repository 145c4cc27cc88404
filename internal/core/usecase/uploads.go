package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
	"github.com/kirillkom/strive-toolkit-cli/internal/observability/metrics"
)

// ConfigStatusTracker owns the readiness view over the three reference-data
// uploads. Each upload kind has its own operation state and endpoint;
// operations never block or reset one another, and a readiness flag only
// ever moves false to true, on a successful upload of its own kind.
type ConfigStatusTracker struct {
	gateway   ports.BackendGateway
	inspector ports.PayloadInspector
	metrics   *metrics.ClientMetrics
	logger    *slog.Logger

	mu       sync.Mutex
	ops      map[domain.UploadKind]*uploadOperation
	docCount int
}

type uploadOperation struct {
	state   domain.OperationState
	ready   bool
	lastErr string
}

func NewConfigStatusTracker(gateway ports.BackendGateway, inspector ports.PayloadInspector, clientMetrics *metrics.ClientMetrics, logger *slog.Logger) *ConfigStatusTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConfigStatusTracker{
		gateway:   gateway,
		inspector: inspector,
		metrics:   clientMetrics,
		logger:    logger,
		ops: map[domain.UploadKind]*uploadOperation{
			domain.UploadCourses:    {state: domain.OperationIdle},
			domain.UploadHolidays:   {state: domain.OperationIdle},
			domain.UploadGuidelines: {state: domain.OperationIdle},
		},
	}
}

// Upload sends one payload to the endpoint for its kind. A local preview
// failure rejects the payload before any bytes leave the client.
func (t *ConfigStatusTracker) Upload(ctx context.Context, kind domain.UploadKind, filename string, content io.Reader) (domain.UploadSummary, error) {
	op, err := t.beginOperation(kind)
	if err != nil {
		return domain.UploadSummary{}, err
	}

	payload, err := io.ReadAll(content)
	if err != nil {
		return t.settleFailure(kind, op, fmt.Errorf("read payload: %w", err))
	}

	if t.inspector != nil {
		pre, err := t.inspector.Inspect(filename, payload)
		if err != nil {
			return t.settleFailure(kind, op, err)
		}
		if want := expectedPayloadKind(kind); pre.Kind != want {
			return t.settleFailure(kind, op,
				&domain.ValidationError{Message: fmt.Sprintf("%s upload expects a %s payload, got %s", kind, want, pre.Kind)})
		}
	}

	resp, err := t.gateway.UploadFile(ctx, kind.EndpointPath(), filename, bytes.NewReader(payload))
	if err != nil {
		return t.settleFailure(kind, op, err)
	}
	if resp.IsArtifact() {
		return t.settleFailure(kind, op, &domain.RequestError{Message: "unexpected binary response to upload"})
	}

	var summary domain.UploadSummary
	if err := resp.DecodeInto(&summary); err != nil {
		return t.settleFailure(kind, op, &domain.RequestError{Message: "backend returned a malformed upload summary"})
	}
	if !summary.Success {
		msg := summary.Error
		if msg == "" {
			msg = "upload rejected by backend"
		}
		return t.settleFailure(kind, op, &domain.RequestError{Message: msg})
	}

	t.mu.Lock()
	op.state = domain.OperationSuccess
	op.ready = true
	op.lastErr = ""
	t.mu.Unlock()

	t.metrics.ObserveUpload(string(kind), "success")
	t.logger.Info("reference data uploaded", "kind", string(kind), "filename", filename)
	return summary, nil
}

// Readiness reports which datasets have been uploaded successfully at least
// once, plus the last known backend document count.
func (t *ConfigStatusTracker) Readiness() domain.Readiness {
	t.mu.Lock()
	defer t.mu.Unlock()
	return domain.Readiness{
		Courses:       t.ops[domain.UploadCourses].ready,
		Holidays:      t.ops[domain.UploadHolidays].ready,
		Guidelines:    t.ops[domain.UploadGuidelines].ready,
		DocumentCount: t.docCount,
	}
}

// OperationState reports the lifecycle of one upload kind.
func (t *ConfigStatusTracker) OperationState(kind domain.UploadKind) (domain.OperationState, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.ops[kind]
	if !ok {
		return domain.OperationIdle, ""
	}
	return op.state, op.lastErr
}

// ListDocuments fetches the selectable source documents and refreshes the
// tracked document count.
func (t *ConfigStatusTracker) ListDocuments(ctx context.Context) (domain.DocumentList, error) {
	resp, err := t.gateway.SendJSON(ctx, http.MethodGet, "/get_documents", nil)
	if err != nil {
		return domain.DocumentList{}, err
	}
	var list domain.DocumentList
	if err := resp.DecodeInto(&list); err != nil {
		return domain.DocumentList{}, &domain.RequestError{Message: "backend returned a malformed document list"}
	}
	if list.TotalCount == 0 {
		list.TotalCount = len(list.Documents)
	}

	t.mu.Lock()
	t.docCount = list.TotalCount
	t.mu.Unlock()
	return list, nil
}

func (t *ConfigStatusTracker) beginOperation(kind domain.UploadKind) (*uploadOperation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	op, ok := t.ops[kind]
	if !ok {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("unknown upload kind %q", kind)}
	}
	op.state = domain.OperationInFlight
	return op, nil
}

// settleFailure marks the operation failed without touching its readiness
// flag: an earlier success is never erased by a later failure.
func (t *ConfigStatusTracker) settleFailure(kind domain.UploadKind, op *uploadOperation, err error) (domain.UploadSummary, error) {
	t.mu.Lock()
	op.state = domain.OperationFailure
	op.lastErr = err.Error()
	t.mu.Unlock()

	t.metrics.ObserveUpload(string(kind), "failure")
	return domain.UploadSummary{}, err
}

func expectedPayloadKind(kind domain.UploadKind) string {
	if kind == domain.UploadGuidelines {
		return "text"
	}
	return "spreadsheet"
}

