package ports

import (
	"context"
	"io"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

// ReferenceUploader is the inbound contract for reference-data uploads and
// the readiness view they feed.
type ReferenceUploader interface {
	Upload(ctx context.Context, kind domain.UploadKind, filename string, content io.Reader) (domain.UploadSummary, error)
	Readiness() domain.Readiness
}

// DocumentCatalog lists the source documents available for generation.
type DocumentCatalog interface {
	ListDocuments(ctx context.Context) (domain.DocumentList, error)
}

// PersonalizationSource is the read-only projection of the resolved
// location suggestion handed to generation workflows.
type PersonalizationSource interface {
	SuggestedLanguage() string
	SuggestedState() string
}

// BatchProcessor runs the personalized-learning batch over an assessment
// results file.
type BatchProcessor interface {
	Process(ctx context.Context, filename string, content io.Reader) (domain.BatchEmailSummary, error)
}
