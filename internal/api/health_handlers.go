package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health and catalog cache status",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// HealthResponse contains server health data.
type HealthResponse struct {
	Status      string `json:"status" doc:"Server status"`
	CachedSites int    `json:"cached_sites" doc:"Number of sites currently cached"`
	CacheLoaded bool   `json:"cache_loaded" doc:"Whether the initial catalog load completed"`
	CacheError  string `json:"cache_error,omitempty" doc:"Last catalog load error, if any"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	store := s.services.Store
	return &HealthOutput{
		Body: HealthResponse{
			Status:      "healthy",
			CachedSites: len(store.Items()),
			CacheLoaded: !store.Loading() && store.Err() == "",
			CacheError:  store.Err(),
		},
	}, nil
}
