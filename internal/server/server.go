// Package server exposes the listing service over HTTP.
//
// Routes:
//
//	POST   /api/listings            → create listing (auth)
//	GET    /api/listings            → search listings (auth optional)
//	GET    /api/listings/mine       → caller's listings (auth)
//	GET    /api/listings/{id}       → single listing
//	PUT    /api/listings/{id}       → update listing (auth, owner only)
//	DELETE /api/listings/{id}       → delete listing (auth, owner only)
//	GET    /api/options             → fixed option lists
//	GET    /health                  → liveness
package server

import (
	"net/http"

	"job-board-api/internal/auth"
	"job-board-api/internal/listing"
	"job-board-api/internal/models"
	"job-board-api/internal/storage/redis"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Server struct {
	svc       *listing.Service
	verifier  *auth.Verifier
	opts      *models.Options
	cache     *redis.Cache
	rateLimit int
	logger    *zap.Logger
}

func New(svc *listing.Service, verifier *auth.Verifier, opts *models.Options, cache *redis.Cache, rateLimit int, logger *zap.Logger) *Server {
	return &Server{
		svc:       svc,
		verifier:  verifier,
		opts:      opts,
		cache:     cache,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// Router builds the mux router with all routes and middleware mounted.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Use(s.recovery)
	r.Use(s.requestLogger)
	if s.cache != nil {
		r.Use(s.rateLimiter)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/listings", s.requireAuth(s.handleCreate)).Methods(http.MethodPost)
	api.HandleFunc("/listings", s.handleSearch).Methods(http.MethodGet)
	api.HandleFunc("/listings/mine", s.requireAuth(s.handleMine)).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id}", s.requireAuth(s.handleUpdate)).Methods(http.MethodPut)
	api.HandleFunc("/listings/{id}", s.requireAuth(s.handleDelete)).Methods(http.MethodDelete)
	api.HandleFunc("/options", s.handleOptions).Methods(http.MethodGet)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	return r
}
