// Package server wires the HTTP surface: chi routing, CORS, metrics, and
// the huma API with every handler registered.
package server

import (
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/faciam-dev/widgetboard/internal/api/handler"
	"github.com/faciam-dev/widgetboard/internal/dashboard"
	"github.com/faciam-dev/widgetboard/internal/server/middleware"
)

// New builds the API around an assembled Aggregator.
func New(agg *dashboard.Aggregator) huma.API {
	r := chi.NewRouter()

	allowed := os.Getenv("ALLOWED_ORIGINS")
	if allowed == "" {
		allowed = "http://localhost:5173"
	}
	origins := strings.Split(allowed, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	api := humachi.New(r, huma.DefaultConfig("Widgetboard API", "1.0.0"))
	api.UseMiddleware(middleware.MetricsMW)

	handler.RegisterDashboard(api, &handler.DashboardHandler{Agg: agg})
	handler.RegisterInstance(api, &handler.InstanceHandler{Agg: agg})
	handler.RegisterWidgets(api, &handler.WidgetsHandler{Agg: agg})

	return api
}
