package httptransport

import (
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"vehicle-market/internal/config"
	"vehicle-market/internal/ledger"
	"vehicle-market/internal/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(svc *ledger.Service, cfg config.ServerConfig) *chi.Mux {
	balance := NewBalanceHandlers(svc)
	limiter := NewRateLimiter(cfg.UpdateRateLimit, cfg.UpdateRateBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	if cfg.TrustProxyHeaders {
		r.Use(chimw.RealIP)
	}
	r.Use(CORSMiddleware(cfg.CORSOrigins))
	r.Use(MetricsMiddleware())

	r.With(APILogMiddleware()).Get("/healthz", balance.Health())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/balance/{id}", balance.Get())
		r.Get("/balance/{id}/entries", balance.Entries())
		r.With(limiter.Handler, BodyCaptureMiddleware(4096)).Post("/balance/{id}/update", balance.Update())
	})

	if cfg.StaticDir != "" {
		if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
			r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
		} else {
			log.Warn().Str("path", cfg.StaticDir).Msg("static directory not found; skipping catch-all static route")
		}
	}
	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
