package geo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

func TestFileSourceParsesCoordinates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords")
	if err := os.WriteFile(path, []byte("19.0760, 72.8777\n"), 0o644); err != nil {
		t.Fatalf("write coords: %v", err)
	}

	coords, err := NewFileSource(path).Coordinates(context.Background())
	if err != nil {
		t.Fatalf("Coordinates() error = %v", err)
	}
	if coords.Lat != 19.0760 || coords.Lon != 72.8777 {
		t.Fatalf("unexpected coords: %+v", coords)
	}
}

func TestFileSourceMissingFileIsUnavailable(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope")).Coordinates(context.Background())
	if !domain.IsKind(err, domain.ErrSensorUnavailable) {
		t.Fatalf("expected sensor unavailable, got %v", err)
	}
}

func TestFileSourceEmptyPathIsUnavailable(t *testing.T) {
	_, err := NewFileSource("").Coordinates(context.Background())
	if !domain.IsKind(err, domain.ErrSensorUnavailable) {
		t.Fatalf("expected sensor unavailable, got %v", err)
	}
}

func TestFileSourcePermissionDenied(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}
	path := filepath.Join(t.TempDir(), "coords")
	if err := os.WriteFile(path, []byte("10,20"), 0o000); err != nil {
		t.Fatalf("write coords: %v", err)
	}

	_, err := NewFileSource(path).Coordinates(context.Background())
	if !domain.IsKind(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected permission denied, got %v", err)
	}
}

func TestFileSourceGarbageContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coords")
	if err := os.WriteFile(path, []byte("somewhere in India"), 0o644); err != nil {
		t.Fatalf("write coords: %v", err)
	}

	_, err := NewFileSource(path).Coordinates(context.Background())
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if domain.IsKind(err, domain.ErrPermissionDenied) {
		t.Fatalf("parse failure must not masquerade as permission denial")
	}
}
