package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/unrolled/secure"

	"github.com/nodebeacon/beacon/internal/alerts"
	_ "github.com/nodebeacon/beacon/internal/api/docs" // swagger spec
	"github.com/nodebeacon/beacon/internal/config"
	"github.com/nodebeacon/beacon/internal/ranking"
	"github.com/nodebeacon/beacon/internal/scanner"
	"github.com/nodebeacon/beacon/internal/store"
	"github.com/nodebeacon/beacon/pkg/types"
)

// NotFoundMessage is returned when a node name is not in the latest cycle.
const NotFoundMessage = "API node not found"

// StatusSource reports scheduler state. *scanner.Scheduler implements it.
type StatusSource interface {
	Status() scanner.Status
}

// AlertSource lists current alerts. *alerts.Engine implements it.
type AlertSource interface {
	Active() []*alerts.Alert
}

// Deps are the collaborators the handler reads from. Store and Ranker are
// required; the rest are optional and their routes degrade gracefully.
type Deps struct {
	Store  *store.Store
	Ranker *ranking.Ranker
	Status StatusSource
	Alerts AlertSource

	// Stream is mounted at /ws/stream.
	Stream http.Handler
	// Metrics is mounted at /metrics.
	Metrics http.Handler
	// UIDir, when set, is served at / with index.html as SPA fallback.
	UIDir string
}

// Handler is the HTTP handler for the whole beacon surface.
type Handler struct {
	deps   Deps
	cache  *responseCache
	router chi.Router
}

// New creates a Handler and registers all routes and middleware.
func New(cfg config.ServerConfig, deps Deps) *Handler {
	h := &Handler{
		deps:   deps,
		cache:  newResponseCache(cfg.CacheSize, cfg.CacheTTL),
		router: chi.NewRouter(),
	}

	r := h.router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", cfg.Auth.EffectiveHeader()},
	}).Handler)
	r.Use(secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "no-referrer",
	}).Handler)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimit.Requests, cfg.RateLimit.Window))
		}

		r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/api/docs/doc.json")))

		r.Group(func(r chi.Router) {
			r.Use(h.cache.middleware)
			r.Get("/ping", h.ping)
			r.Get("/best", h.best)
			r.Get("/nodes", h.nodes)
			r.Get("/nodes/{name}", h.node)
		})

		r.Get("/status", h.status)
		r.Get("/alerts", h.alerts)
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	if deps.Stream != nil {
		r.Method(http.MethodGet, "/ws/stream", deps.Stream)
	}
	if deps.UIDir != "" {
		r.Get("/*", spaHandler(deps.UIDir))
		slog.Info("serving UI static files", "dir", deps.UIDir)
	}
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// Invalidate drops cached responses. Call it after a new cycle is published.
func (h *Handler) Invalidate() {
	h.cache.purge()
}

// --- route handlers ---------------------------------------------------------

// ping godoc
// @Summary Liveness probe
// @Produce plain
// @Success 200 {string} string "pong"
// @Router /ping [get]
func (h *Handler) ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong")) //nolint:errcheck
}

// best godoc
// @Summary Recommended nodes
// @Description Nodes at the best threshold when enough qualify, otherwise nodes at the valid threshold. Website-only and zero-score nodes are never included.
// @Produce json
// @Success 200 {array} types.ScoredNode
// @Router /best [get]
func (h *Handler) best(w http.ResponseWriter, _ *http.Request) {
	nodes := h.deps.Store.Current().Nodes
	jsonResp(w, http.StatusOK, h.deps.Ranker.Policy().Best(nodes))
}

// nodes godoc
// @Summary All scanned nodes
// @Description Nodes in configuration order, unsorted.
// @Produce json
// @Success 200 {array} types.ScoredNode
// @Router /nodes [get]
func (h *Handler) nodes(w http.ResponseWriter, _ *http.Request) {
	nodes := h.deps.Store.Current().Nodes
	jsonResp(w, http.StatusOK, h.deps.Ranker.Rank(nodes).All)
}

// node godoc
// @Summary One node's check results
// @Produce json
// @Param name path string true "Node name"
// @Success 200 {object} NodeResponse
// @Failure 404 {object} errorResponse
// @Router /nodes/{name} [get]
func (h *Handler) node(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	n, ok := h.deps.Store.Get(name)
	if !ok {
		jsonErr(w, http.StatusNotFound, NotFoundMessage)
		return
	}
	jsonResp(w, http.StatusOK, toNodeResponse(n))
}

// status godoc
// @Summary Scanner status
// @Produce json
// @Success 200 {object} StatusResponse
// @Router /status [get]
func (h *Handler) status(w http.ResponseWriter, _ *http.Request) {
	snap := h.deps.Store.Current()
	resp := StatusResponse{
		CycleID:     snap.CycleID,
		NodeCount:   len(snap.Nodes),
		BestCount:   len(h.deps.Ranker.Policy().Best(snap.Nodes)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if !snap.CompletedAt.IsZero() {
		t := snap.CompletedAt.UTC()
		resp.CompletedAt = &t
	}
	if h.deps.Status != nil {
		resp.Scanner = h.deps.Status.Status()
	}
	if h.deps.Alerts != nil {
		for _, a := range h.deps.Alerts.Active() {
			if a.State == alerts.StateFiring {
				resp.AlertCount++
			}
		}
	}
	jsonResp(w, http.StatusOK, resp)
}

// alerts godoc
// @Summary Firing and recently resolved alerts
// @Produce json
// @Success 200 {object} AlertsResponse
// @Router /alerts [get]
func (h *Handler) alerts(w http.ResponseWriter, _ *http.Request) {
	resp := AlertsResponse{Alerts: []*alerts.Alert{}}
	if h.deps.Alerts != nil {
		resp.Alerts = h.deps.Alerts.Active()
	}
	jsonResp(w, http.StatusOK, resp)
}

// --- helpers ----------------------------------------------------------------

func jsonResp(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}

func toNodeResponse(n types.NodeStatus) NodeResponse {
	return NodeResponse{
		NodeStatus:  n,
		Success:     n.Successes(),
		Fail:        n.Failures(),
		Diagnostics: computeDiagnostics(n),
	}
}

// spaHandler serves files from dir, falling back to index.html for unknown
// paths so client-side routing works.
func spaHandler(dir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if _, err := os.Stat(path); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	}
}
