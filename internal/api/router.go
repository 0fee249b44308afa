package api

import (
	"net/http"
	"time"

	"map-weather-service/internal/api/handlers"
	"map-weather-service/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Screen     handlers.Screen
	Feed       handlers.Feed
	Tracker    handlers.FixReporter
	Permission handlers.PermissionSetter
	Camera     handlers.CameraReader
	MaxWait    time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	maxWait := d.MaxWait
	if maxWait <= 0 {
		maxWait = 10 * time.Second
	}

	lookups := &handlers.LookupHandler{Screen: d.Screen, Feed: d.Feed, MaxWait: maxWait}
	location := &handlers.LocationHandler{
		Screen:     d.Screen,
		Tracker:    d.Tracker,
		Permission: d.Permission,
		Camera:     d.Camera,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/taps", lookups.Tap)
		r.Post("/searches", lookups.Search)
		r.Post("/locate", lookups.LocateMe)
		r.Get("/presentations", lookups.Presentations)

		r.Post("/location/fixes", location.Fix)
		r.Delete("/location/fixes", location.LoseFix)
		r.Post("/location/permission", location.SetPermission)
		r.Get("/camera", location.CameraSnapshot)
	})

	return r
}
