// Package geo supplies host coordinates to the location resolver. The
// backend does the actual geocoding; this side only answers "where is the
// machine", the way a browser's geolocation API would.
package geo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
)

// FileSource reads "lat,lon" from a coordinates file maintained by the host
// (a GPS daemon, an MDM agent, or the operator). A missing file means no
// sensor; an unreadable one means access was refused.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Coordinates(_ context.Context) (domain.Coordinates, error) {
	if s.path == "" {
		return domain.Coordinates{}, domain.ErrSensorUnavailable
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return domain.Coordinates{}, domain.WrapError(domain.ErrPermissionDenied, "read coordinates file", err)
		}
		return domain.Coordinates{}, domain.WrapError(domain.ErrSensorUnavailable, "read coordinates file", err)
	}
	return parseCoordinates(string(raw))
}

// StaticSource returns fixed coordinates, used when the operator passes
// --lat/--lon explicitly.
type StaticSource struct {
	Coords domain.Coordinates
}

func (s StaticSource) Coordinates(_ context.Context) (domain.Coordinates, error) {
	return s.Coords, nil
}

func parseCoordinates(raw string) (domain.Coordinates, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("coordinates file: want \"lat,lon\", got %q", strings.TrimSpace(raw))
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}
	return domain.Coordinates{Lat: lat, Lon: lon}, nil
}
