package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"gramfix/internal/config"
	"gramfix/internal/domain"
)

// APIService serves read-only health and stats endpoints
type APIService struct {
	config   *config.Config
	logger   *slog.Logger
	router   *http.ServeMux
	linkRepo domain.LinkRepository

	// HTTP server
	server *http.Server
}

// New creates a new API service
func New(
	config *config.Config,
	logger *slog.Logger,
	linkRepo domain.LinkRepository,
) (*APIService, error) {
	router := http.NewServeMux()

	apiService := &APIService{
		config:   config,
		logger:   logger,
		router:   router,
		linkRepo: linkRepo,
	}

	// Create HTTP server
	apiService.server = &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup routes
	apiService.setupRoutes()

	return apiService, nil
}

// setupRoutes configures all API routes
func (s *APIService) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /api/v1/stats", s.handleStats)
	s.router.HandleFunc("GET /api/v1/guilds/{id}/links", s.handleGuildLinks)
}

// Start begins serving the API
func (s *APIService) Start() error {
	s.logger.Info("Starting API server", "port", s.config.Port)
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the API server
func (s *APIService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *APIService) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

// handleStats reports total processed-link counts
func (s *APIService) handleStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.linkRepo.Count(r.Context())
	if err != nil {
		s.logger.Error("Failed to count links", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	stats := map[string]interface{}{
		"total_links": total,
	}

	if guildID := r.URL.Query().Get("guild_id"); guildID != "" {
		count, err := s.linkRepo.CountByGuild(r.Context(), guildID)
		if err != nil {
			s.logger.Error("Failed to count guild links", "error", err, "guild_id", guildID)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		stats["guild_links"] = count
	}

	s.writeJSON(w, stats)
}

// handleGuildLinks lists the most recently processed links for a guild
func (s *APIService) handleGuildLinks(w http.ResponseWriter, r *http.Request) {
	guildID := r.PathValue("id")
	if guildID == "" {
		http.Error(w, "Missing guild id", http.StatusBadRequest)
		return
	}

	links, err := s.linkRepo.GetRecentByGuild(r.Context(), guildID, 50)
	if err != nil {
		s.logger.Error("Failed to list guild links", "error", err, "guild_id", guildID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, map[string]interface{}{
		"guild_id": guildID,
		"links":    links,
	})
}

func (s *APIService) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}
