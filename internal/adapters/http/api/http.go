// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/levelboard/internal/adapters/mq/queue"
	"github.com/okian/levelboard/internal/domain/aggregate"
	"github.com/okian/levelboard/internal/domain/catalog"
	"github.com/okian/levelboard/internal/domain/model"
	"github.com/okian/levelboard/internal/domain/ranking"
)

const defaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	LevelDependencies
	CreatorDependencies

	// Diagnostics returns the data problems of the current snapshot.
	Diagnostics(ctx context.Context) ([]aggregate.Diagnostic, error)

	// RequestReload queues an asynchronous reload of the datasets.
	RequestReload(ctx context.Context, trigger string) (queue.Outcome, error)
}

// LevelDependencies defines the level catalog reads.
type LevelDependencies interface {
	Levels(ctx context.Context, category model.Category, q catalog.Query) ([]catalog.Item, error)
	Level(ctx context.Context, category model.Category, id string) (catalog.Item, error)
}

// CreatorDependencies defines the creator reads.
type CreatorDependencies interface {
	CreatorDetail(ctx context.Context, name string) (model.CreatorStats, model.Profile, error)
	CreatorLevels(ctx context.Context, name string, q catalog.Query) ([]catalog.Item, error)
}

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	TopN(ctx context.Context, criterion model.Criterion, n int) ([]ranking.Entry, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	levelHandler       *LevelHandler
	creatorHandler     *CreatorHandler
	leaderboardHandler *LeaderboardHandler
	diagnosticsHandler *DiagnosticsHandler
	reloadHandler      *ReloadHandler
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	maxLimit int
}

// WithMaxLimit caps the leaderboard limit parameter.
func WithMaxLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxLimit = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	cfg := serverConfig{maxLimit: defaultMaxLimit}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		levelHandler:       NewLevelHandler(deps),
		creatorHandler:     NewCreatorHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, cfg.maxLimit),
		diagnosticsHandler: NewDiagnosticsHandler(deps),
		reloadHandler:      NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /levels/{category}", MetricsMiddleware(s.levelHandler.HandleListLevels, "levels"))
	mux.HandleFunc("GET /levels/{category}/{id}", MetricsMiddleware(s.levelHandler.HandleGetLevel, "level"))
	mux.HandleFunc("GET /creators/{name}", MetricsMiddleware(s.creatorHandler.HandleGetCreator, "creator"))
	mux.HandleFunc("GET /creators/{name}/levels", MetricsMiddleware(s.creatorHandler.HandleCreatorLevels, "creator_levels"))
	mux.HandleFunc("GET /leaderboard/{criterion}", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /diagnostics", MetricsMiddleware(s.diagnosticsHandler.HandleDiagnostics, "diagnostics"))
	mux.HandleFunc("POST /reload", MetricsMiddleware(s.reloadHandler.HandleReload, "reload"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError picks the status from the error kind.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// parseQuery reads the q and sort parameters shared by level lists.
func parseQuery(op string, r *http.Request) (catalog.Query, error) {
	sort, err := catalog.ParseSort(r.URL.Query().Get("sort"))
	if err != nil {
		return catalog.Query{}, WrapKind(op, ErrBadRequest, err)
	}
	return catalog.Query{Search: r.URL.Query().Get("q"), Sort: sort}, nil
}
