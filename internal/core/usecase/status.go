package usecase

import (
	"context"
	"net/http"

	"github.com/kirillkom/strive-toolkit-cli/internal/core/domain"
	"github.com/kirillkom/strive-toolkit-cli/internal/core/ports"
)

// BackendStatus reads the backend's own dataset-readiness counters.
type BackendStatus struct {
	gateway ports.BackendGateway
}

func NewBackendStatus(gateway ports.BackendGateway) *BackendStatus {
	return &BackendStatus{gateway: gateway}
}

func (s *BackendStatus) Health(ctx context.Context) (domain.BackendHealth, error) {
	resp, err := s.gateway.SendJSON(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return domain.BackendHealth{}, err
	}
	var health domain.BackendHealth
	if err := resp.DecodeInto(&health); err != nil {
		return domain.BackendHealth{}, &domain.RequestError{Message: "backend returned a malformed health payload"}
	}
	return health, nil
}
