package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
)

// LocationResolver owns the personalization suggestion. It always tries an
// IP-based detection, then refines with host coordinates when a sensor is
// configured. Failures degrade quietly: only a coordinate permission refusal
// leaves a mark (the advisory flag), and never at the cost of an earlier
// successful suggestion.
type LocationResolver struct {
	gateway ports.BackendGateway
	sensor  ports.CoordinateSource
	logger  *slog.Logger

	mu      sync.Mutex
	current domain.LocationSuggestion
}

func NewLocationResolver(gateway ports.BackendGateway, sensor ports.CoordinateSource, logger *slog.Logger) *LocationResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocationResolver{
		gateway: gateway,
		sensor:  sensor,
		logger:  logger,
		current: domain.DefaultLocationSuggestion(),
	}
}

// Resolve runs both resolution attempts and returns the final suggestion.
func (r *LocationResolver) Resolve(ctx context.Context) domain.LocationSuggestion {
	if suggestion, err := r.detect(ctx, nil); err != nil {
		r.logger.Debug("ip location detection failed", "error", err)
	} else if suggestion.Detected {
		r.apply(suggestion, domain.ProvenanceIP)
	}

	if r.sensor != nil {
		r.refineWithCoordinates(ctx)
	}

	return r.Suggestion()
}

func (r *LocationResolver) refineWithCoordinates(ctx context.Context) {
	coords, err := r.sensor.Coordinates(ctx)
	if err != nil {
		if domain.IsKind(err, domain.ErrPermissionDenied) {
			r.mu.Lock()
			r.current.PermissionDenied = true
			r.mu.Unlock()
			r.logger.Info("coordinate access denied; keeping prior suggestion")
		} else {
			r.logger.Debug("coordinate source unavailable", "error", err)
		}
		return
	}

	suggestion, err := r.detect(ctx, &coords)
	if err != nil || !suggestion.Detected {
		r.logger.Debug("coordinate-based detection failed", "error", err)
		return
	}
	r.apply(suggestion, domain.ProvenanceBrowser)
}

func (r *LocationResolver) detect(ctx context.Context, coords *domain.Coordinates) (domain.LocationSuggestion, error) {
	var payload any = struct{}{}
	if coords != nil {
		payload = struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		}{coords.Lat, coords.Lon}
	}

	resp, err := r.gateway.SendJSON(ctx, http.MethodPost, "/detect_location", payload)
	if err != nil {
		return domain.LocationSuggestion{}, err
	}

	var decoded domain.DetectLocationResponse
	if err := resp.DecodeInto(&decoded); err != nil {
		return domain.LocationSuggestion{}, &domain.RequestError{Message: "backend returned a malformed location"}
	}

	return domain.LocationSuggestion{
		City:              decoded.Location.City,
		State:             decoded.Location.State,
		Country:           decoded.Location.Country,
		Detected:          decoded.Location.Detected,
		SuggestedLanguage: decoded.SuggestedLanguage,
	}, nil
}

func (r *LocationResolver) apply(suggestion domain.LocationSuggestion, provenance domain.Provenance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	suggestion.Provenance = provenance
	suggestion.PermissionDenied = r.current.PermissionDenied
	if suggestion.SuggestedLanguage == "" {
		suggestion.SuggestedLanguage = "English"
	}
	r.current = suggestion
}

// Suggestion returns the full suggestion, for display.
func (r *LocationResolver) Suggestion() domain.LocationSuggestion {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// SuggestedLanguage is the read-only projection consumed by generation
// workflows.
func (r *LocationResolver) SuggestedLanguage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.SuggestedLanguage
}

// SuggestedState is the read-only projection for the lesson planner's
// holiday lookup.
func (r *LocationResolver) SuggestedState() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.State
}
