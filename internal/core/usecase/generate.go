package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
)

// SubmissionState is the generation workflow's position in its cycle.
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateValidating SubmissionState = "validating"
	StateSubmitting SubmissionState = "submitting"
	StateRendered   SubmissionState = "rendered"
	StateDownloaded SubmissionState = "downloaded"
	StateFailed     SubmissionState = "failed"
)

// ControllerSnapshot is the externally visible state of one controller.
// Exactly one of Content / DownloadedFile / Message is meaningful once the
// cycle settles; stale output is never shown next to a newer outcome.
type ControllerSnapshot struct {
	State          SubmissionState
	Content        *domain.GeneratedContent
	DownloadedFile string
	SavedPath      string
	SavedPages     int
	Message        string
	RawView        bool
}

// GenerationController drives one generation feature end to end: local
// validation, one backend call, and the dual-shaped outcome (render inline
// or hand the artifact to the sink).
type GenerationController struct {
	feature  domain.Feature
	gateway  ports.BackendGateway
	sink     ports.ArtifactSink
	logger   *slog.Logger
	validate *validator.Validate

	mu   sync.Mutex
	seq  uint64
	snap ControllerSnapshot
}

func NewGenerationController(feature domain.Feature, gateway ports.BackendGateway, sink ports.ArtifactSink, logger *slog.Logger) *GenerationController {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerationController{
		feature:  feature,
		gateway:  gateway,
		sink:     sink,
		logger:   logger.With("feature", string(feature)),
		validate: validator.New(),
		snap:     ControllerSnapshot{State: StateIdle},
	}
}

func (c *GenerationController) Feature() domain.Feature { return c.feature }

// Snapshot returns the current state. Safe to call concurrently with an
// in-flight submission.
func (c *GenerationController) Snapshot() ControllerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// SetRawView flips the presentation of a rendered result between the
// human-readable rendering and the raw structured form. It never touches
// the network and is reset on every new submission.
func (c *GenerationController) SetRawView(raw bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap.RawView = raw
}

// Submit runs one full cycle. If a newer submission is issued before this
// one settles, this one's outcome is discarded: only the most recently
// initiated submission may update the snapshot.
func (c *GenerationController) Submit(ctx context.Context, req domain.GenerationRequest) ControllerSnapshot {
	req.Feature = c.feature
	submissionID := uuid.NewString()

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.snap.State = StateValidating
	c.snap.Message = ""
	c.snap.DownloadedFile = ""
	c.snap.SavedPath = ""
	c.snap.SavedPages = 0
	c.snap.RawView = false
	c.mu.Unlock()

	if err := c.validateRequest(req); err != nil {
		c.logger.Warn("submission rejected locally", "submission_id", submissionID, "error", err)
		return c.applyFailure(seq, err.Error())
	}

	c.setState(seq, StateSubmitting)
	c.logger.Info("submitting generation request",
		"submission_id", submissionID,
		"topic", req.Topic,
		"output_format", string(req.OutputFormat),
		"documents", len(req.SelectedDocuments),
	)

	resp, err := c.gateway.SendJSON(ctx, http.MethodPost, c.feature.EndpointPath(), req)
	if err != nil {
		c.logger.Warn("generation request failed", "submission_id", submissionID, "error", err)
		return c.applyFailure(seq, err.Error())
	}

	if resp.IsArtifact() {
		return c.applyArtifact(ctx, seq, submissionID, resp.Artifact)
	}
	return c.applyStructured(seq, submissionID, resp)
}

// validateRequest rejects a request before any network activity.
func (c *GenerationController) validateRequest(req domain.GenerationRequest) error {
	if len(req.SelectedDocuments) == 0 {
		return &domain.ValidationError{Message: "select at least one source document"}
	}
	if strings.TrimSpace(req.Topic) == "" {
		return &domain.ValidationError{Message: "topic is required"}
	}
	if err := c.validate.Struct(req); err != nil {
		return &domain.ValidationError{Message: "invalid request: " + err.Error()}
	}
	return nil
}

func (c *GenerationController) applyStructured(seq uint64, submissionID string, resp *domain.BackendResponse) ControllerSnapshot {
	var content domain.GeneratedContent
	if err := resp.DecodeInto(&content); err != nil {
		return c.applyFailure(seq, "backend returned a malformed response")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snap
	}
	c.snap = ControllerSnapshot{State: StateRendered, Content: &content}
	c.logger.Info("generation rendered", "submission_id", submissionID, "language", content.Language, "sources", len(content.Sources))
	return c.snap
}

func (c *GenerationController) applyArtifact(ctx context.Context, seq uint64, submissionID string, artifact *domain.Artifact) ControllerSnapshot {
	filename := domain.ResolveAttachmentFilename(artifact.Disposition)

	c.mu.Lock()
	if seq != c.seq {
		snap := c.snap
		c.mu.Unlock()
		return snap
	}
	c.mu.Unlock()

	// Save without holding the lock so Snapshot() stays responsive during
	// disk writes; staleness is re-checked before the outcome is applied.
	saved, err := c.sink.Save(ctx, *artifact, filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snap
	}
	if err != nil {
		c.snap = ControllerSnapshot{State: StateFailed, Message: "saving " + filename + ": " + err.Error()}
		return c.snap
	}

	c.snap = ControllerSnapshot{
		State:          StateDownloaded,
		DownloadedFile: filename,
		SavedPath:      saved.Path,
		SavedPages:     saved.Pages,
	}
	c.logger.Info("artifact downloaded", "submission_id", submissionID, "filename", filename, "bytes", saved.Size)
	return c.snap
}

func (c *GenerationController) applyFailure(seq uint64, message string) ControllerSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return c.snap
	}
	c.snap = ControllerSnapshot{State: StateFailed, Message: message}
	return c.snap
}

func (c *GenerationController) setState(seq uint64, state SubmissionState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	c.snap.State = state
}
