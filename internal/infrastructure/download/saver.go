package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/observability/metrics"
)

// Saver persists downloaded artifacts into a fixed directory. Writes go
// through a temp file that is removed on every failure path, so a failed
// save never leaves a partial artifact behind.
type Saver struct {
	dir     string
	metrics *metrics.ClientMetrics
}

func New(dir string, clientMetrics *metrics.ClientMetrics) (*Saver, error) {
	if dir == "" {
		dir = "./downloads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create downloads dir: %w", err)
	}
	return &Saver{dir: dir, metrics: clientMetrics}, nil
}

func (s *Saver) Save(_ context.Context, artifact domain.Artifact, filename string) (domain.SavedArtifact, error) {
	path := filepath.Join(s.dir, sanitizeFilename(filename))

	tmp, err := os.CreateTemp(s.dir, ".download-*")
	if err != nil {
		return domain.SavedArtifact{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(artifact.Data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return domain.SavedArtifact{}, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return domain.SavedArtifact{}, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return domain.SavedArtifact{}, fmt.Errorf("place artifact: %w", err)
	}

	saved := domain.SavedArtifact{
		Path: path,
		Size: int64(len(artifact.Data)),
	}
	if strings.Contains(artifact.MimeType, "pdf") {
		// Advisory only; an unreadable PDF still counts as saved.
		saved.Pages = pdfPageCount(path)
	}

	s.metrics.ObserveDownload(artifact.MimeType)
	return saved, nil
}

func pdfPageCount(path string) int {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()
	return reader.NumPage()
}

// sanitizeFilename keeps the resolved name (including non-ASCII) but strips
// anything that could escape the downloads directory or upset the FS.
func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == '\\', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." || base == ".." {
		return "download.bin"
	}
	return base
}
