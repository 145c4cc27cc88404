package ports

import (
	"context"
	"io"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

// BackendGateway is the single transport boundary to the generation backend.
// Every call issues at most one network attempt.
type BackendGateway interface {
	SendJSON(ctx context.Context, method, path string, payload any) (*domain.BackendResponse, error)
	UploadFile(ctx context.Context, path, filename string, content io.Reader) (*domain.BackendResponse, error)
}

// ArtifactSink persists a downloaded artifact under the resolved filename.
type ArtifactSink interface {
	Save(ctx context.Context, artifact domain.Artifact, filename string) (domain.SavedArtifact, error)
}

// CoordinateSource abstracts the host geolocation sensor. Implementations
// return domain.ErrSensorUnavailable when no sensor is configured and
// domain.ErrPermissionDenied when access to it was refused.
type CoordinateSource interface {
	Coordinates(ctx context.Context) (domain.Coordinates, error)
}

// PayloadInspector validates an upload payload locally before it is sent.
type PayloadInspector interface {
	Inspect(filename string, content []byte) (domain.PayloadPreview, error)
}
