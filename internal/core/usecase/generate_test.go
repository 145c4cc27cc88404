package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

type sendCall struct {
	method  string
	path    string
	payload any
}

type uploadCall struct {
	path     string
	filename string
	body     []byte
}

// fakeGateway is a scriptable BackendGateway. Calls are recorded; responses
// come from the configured funcs or fall back to an empty structured body.
type fakeGateway struct {
	mu          sync.Mutex
	sendCalls   []sendCall
	uploadCalls []uploadCall

	sendFn   func(ctx context.Context, method, path string, payload any) (*domain.BackendResponse, error)
	uploadFn func(ctx context.Context, path, filename string, content io.Reader) (*domain.BackendResponse, error)
}

func (g *fakeGateway) SendJSON(ctx context.Context, method, path string, payload any) (*domain.BackendResponse, error) {
	g.mu.Lock()
	g.sendCalls = append(g.sendCalls, sendCall{method: method, path: path, payload: payload})
	g.mu.Unlock()
	if g.sendFn != nil {
		return g.sendFn(ctx, method, path, payload)
	}
	return structuredResponse(`{}`), nil
}

func (g *fakeGateway) UploadFile(ctx context.Context, path, filename string, content io.Reader) (*domain.BackendResponse, error) {
	body, err := io.ReadAll(content)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.uploadCalls = append(g.uploadCalls, uploadCall{path: path, filename: filename, body: body})
	g.mu.Unlock()
	if g.uploadFn != nil {
		return g.uploadFn(ctx, path, filename, strings.NewReader(string(body)))
	}
	return structuredResponse(`{"success":true}`), nil
}

func (g *fakeGateway) sendCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sendCalls)
}

type fakeSink struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (s *fakeSink) Save(_ context.Context, artifact domain.Artifact, filename string) (domain.SavedArtifact, error) {
	s.mu.Lock()
	s.calls = append(s.calls, filename)
	s.mu.Unlock()
	if s.err != nil {
		return domain.SavedArtifact{}, s.err
	}
	return domain.SavedArtifact{Path: "downloads/" + filename, Size: int64(len(artifact.Data))}, nil
}

func structuredResponse(body string) *domain.BackendResponse {
	return &domain.BackendResponse{Structured: json.RawMessage(body)}
}

func artifactResponse(data []byte, mimeType, disposition string) *domain.BackendResponse {
	return &domain.BackendResponse{Artifact: &domain.Artifact{Data: data, MimeType: mimeType, Disposition: disposition}}
}

func validRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Topic:             "communication skills",
		Language:          "English",
		OutputFormat:      domain.FormatInteractive,
		SelectedDocuments: []string{"handbook.pdf"},
	}
}

func TestSubmitRejectsEmptyDocumentSelection(t *testing.T) {
	gateway := &fakeGateway{}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, &fakeSink{}, nil)

	req := validRequest()
	req.SelectedDocuments = nil
	snap := ctrl.Submit(context.Background(), req)

	if snap.State != StateFailed {
		t.Fatalf("Submit() state = %q, want %q", snap.State, StateFailed)
	}
	if !strings.Contains(snap.Message, "document") {
		t.Errorf("Submit() message = %q, want a document-selection hint", snap.Message)
	}
	if n := gateway.sendCount(); n != 0 {
		t.Errorf("gateway calls = %d, want 0 for a locally rejected request", n)
	}
}

func TestSubmitRejectsBlankTopic(t *testing.T) {
	gateway := &fakeGateway{}
	ctrl := NewGenerationController(domain.FeatureContent, gateway, &fakeSink{}, nil)

	req := validRequest()
	req.Topic = "   "
	snap := ctrl.Submit(context.Background(), req)

	if snap.State != StateFailed {
		t.Fatalf("Submit() state = %q, want %q", snap.State, StateFailed)
	}
	if n := gateway.sendCount(); n != 0 {
		t.Errorf("gateway calls = %d, want 0", n)
	}
}

func TestSubmitRendersStructuredResult(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(_ context.Context, method, path string, _ any) (*domain.BackendResponse, error) {
			if method != "POST" || path != "/create/assessment" {
				t.Errorf("gateway called with %s %s, want POST /create/assessment", method, path)
			}
			return structuredResponse(`{"english_answer":"Q1. Define rapport.","language":"English","sources":["handbook.pdf"]}`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, &fakeSink{}, nil)

	snap := ctrl.Submit(context.Background(), validRequest())

	if snap.State != StateRendered {
		t.Fatalf("Submit() state = %q, want %q (message: %s)", snap.State, StateRendered, snap.Message)
	}
	if snap.Content == nil || snap.Content.EnglishAnswer != "Q1. Define rapport." {
		t.Errorf("Submit() content = %+v, want the decoded answer", snap.Content)
	}
	if snap.DownloadedFile != "" {
		t.Errorf("DownloadedFile = %q, want empty for a structured result", snap.DownloadedFile)
	}
}

func TestSubmitDownloadsArtifact(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return artifactResponse([]byte("%PDF-1.4"), "application/pdf", `attachment; filename="assessment.pdf"`), nil
		},
	}
	sink := &fakeSink{}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, sink, nil)

	req := validRequest()
	req.OutputFormat = domain.FormatPDF
	snap := ctrl.Submit(context.Background(), req)

	if snap.State != StateDownloaded {
		t.Fatalf("Submit() state = %q, want %q (message: %s)", snap.State, StateDownloaded, snap.Message)
	}
	if snap.DownloadedFile != "assessment.pdf" {
		t.Errorf("DownloadedFile = %q, want %q", snap.DownloadedFile, "assessment.pdf")
	}
	if len(sink.calls) != 1 || sink.calls[0] != "assessment.pdf" {
		t.Errorf("sink calls = %v, want exactly one save as assessment.pdf", sink.calls)
	}
	if snap.SavedPath == "" {
		t.Error("SavedPath is empty, want the persisted location")
	}
}

func TestSubmitArtifactWithoutDispositionGetsFallbackName(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return artifactResponse([]byte("PK"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ""), nil
		},
	}
	sink := &fakeSink{}
	ctrl := NewGenerationController(domain.FeatureLessonPlan, gateway, sink, nil)

	snap := ctrl.Submit(context.Background(), validRequest())

	if snap.State != StateDownloaded {
		t.Fatalf("Submit() state = %q, want %q", snap.State, StateDownloaded)
	}
	if snap.DownloadedFile == "" {
		t.Error("DownloadedFile is empty, want a generated fallback name")
	}
	if len(sink.calls) != 1 || sink.calls[0] == "" {
		t.Errorf("sink calls = %v, want one save with a non-empty filename", sink.calls)
	}
}

func TestSubmitFailureClearsPriorResult(t *testing.T) {
	fail := false
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			if fail {
				return nil, &domain.RequestError{StatusCode: 500, Message: "model overloaded"}
			}
			return structuredResponse(`{"english_answer":"first","language":"English"}`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureContent, gateway, &fakeSink{}, nil)

	if snap := ctrl.Submit(context.Background(), validRequest()); snap.State != StateRendered {
		t.Fatalf("first Submit() state = %q, want %q", snap.State, StateRendered)
	}

	fail = true
	snap := ctrl.Submit(context.Background(), validRequest())

	if snap.State != StateFailed {
		t.Fatalf("second Submit() state = %q, want %q", snap.State, StateFailed)
	}
	if snap.Content != nil {
		t.Errorf("Content = %+v, want nil after a failed cycle", snap.Content)
	}
	if !strings.Contains(snap.Message, "model overloaded") {
		t.Errorf("Message = %q, want the backend failure reason", snap.Message)
	}
}

func TestSubmitSinkFailureReportsAsFailed(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return artifactResponse([]byte("%PDF"), "application/pdf", `attachment; filename="x.pdf"`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, &fakeSink{err: errors.New("disk full")}, nil)

	snap := ctrl.Submit(context.Background(), validRequest())

	if snap.State != StateFailed {
		t.Fatalf("Submit() state = %q, want %q", snap.State, StateFailed)
	}
	if !strings.Contains(snap.Message, "disk full") {
		t.Errorf("Message = %q, want the sink failure", snap.Message)
	}
}

func TestSubmitDiscardsStaleResult(t *testing.T) {
	firstInFlight := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var callsMu sync.Mutex

	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			callsMu.Lock()
			calls++
			n := calls
			callsMu.Unlock()
			if n == 1 {
				close(firstInFlight)
				<-release
				return structuredResponse(`{"english_answer":"stale","language":"English"}`), nil
			}
			return structuredResponse(`{"english_answer":"fresh","language":"English"}`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, &fakeSink{}, nil)

	done := make(chan ControllerSnapshot, 1)
	go func() {
		done <- ctrl.Submit(context.Background(), validRequest())
	}()
	<-firstInFlight

	second := ctrl.Submit(context.Background(), validRequest())
	if second.State != StateRendered || second.Content.EnglishAnswer != "fresh" {
		t.Fatalf("second Submit() = %+v, want the fresh rendered result", second)
	}

	close(release)
	<-done

	final := ctrl.Snapshot()
	if final.State != StateRendered {
		t.Fatalf("Snapshot() state = %q, want %q", final.State, StateRendered)
	}
	if final.Content == nil || final.Content.EnglishAnswer != "fresh" {
		t.Errorf("Snapshot() content = %+v, want the second submission's result; the first settled later and must be discarded", final.Content)
	}
}

func TestSetRawViewResetsOnSubmit(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return structuredResponse(`{"english_answer":"ok","language":"English"}`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureContent, gateway, &fakeSink{}, nil)

	ctrl.Submit(context.Background(), validRequest())
	ctrl.SetRawView(true)
	if !ctrl.Snapshot().RawView {
		t.Fatal("SetRawView(true) not reflected in snapshot")
	}
	if n := gateway.sendCount(); n != 1 {
		t.Fatalf("gateway calls after raw toggle = %d, want 1; toggling must not resubmit", n)
	}

	snap := ctrl.Submit(context.Background(), validRequest())
	if snap.RawView {
		t.Error("RawView survived a new submission, want it reset")
	}
}

// blockingSink parks in Save until released, to exercise controller reads
// during a slow disk write.
type blockingSink struct {
	saving  chan struct{}
	release chan struct{}
}

func (s *blockingSink) Save(_ context.Context, artifact domain.Artifact, filename string) (domain.SavedArtifact, error) {
	close(s.saving)
	<-s.release
	return domain.SavedArtifact{Path: "downloads/" + filename, Size: int64(len(artifact.Data))}, nil
}

func TestSnapshotNotBlockedDuringArtifactSave(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return artifactResponse([]byte("%PDF"), "application/pdf", `attachment; filename="slow.pdf"`), nil
		},
	}
	sink := &blockingSink{saving: make(chan struct{}), release: make(chan struct{})}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, sink, nil)

	submitted := make(chan ControllerSnapshot, 1)
	go func() {
		submitted <- ctrl.Submit(context.Background(), validRequest())
	}()
	<-sink.saving

	read := make(chan ControllerSnapshot, 1)
	go func() {
		read <- ctrl.Snapshot()
	}()
	select {
	case snap := <-read:
		if snap.State != StateSubmitting {
			t.Errorf("Snapshot() state = %q during save, want %q", snap.State, StateSubmitting)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Snapshot() blocked while an artifact save was in progress")
	}

	close(sink.release)
	snap := <-submitted
	if snap.State != StateDownloaded || snap.DownloadedFile != "slow.pdf" {
		t.Fatalf("Submit() = %+v, want the save applied after it completes", snap)
	}
}

func TestSubmitMalformedStructuredBodyFails(t *testing.T) {
	gateway := &fakeGateway{
		sendFn: func(context.Context, string, string, any) (*domain.BackendResponse, error) {
			return structuredResponse(`"just a string"`), nil
		},
	}
	ctrl := NewGenerationController(domain.FeatureAssessment, gateway, &fakeSink{}, nil)

	snap := ctrl.Submit(context.Background(), validRequest())
	if snap.State != StateFailed {
		t.Fatalf("Submit() state = %q, want %q for an undecodable body", snap.State, StateFailed)
	}
}
