package api

import (
	"net/http"
	"time"

	courseapi "github.com/futig/course-backend/internal/api/course"
	"github.com/futig/course-backend/internal/api/docs"
	"github.com/futig/course-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router.
// requestTimeout bounds a whole pipeline step, which spans several generation calls.
func SetupRouter(courseHandler *courseapi.Handler, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(chimiddleware.Timeout(requestTimeout)) // Bound pipeline steps

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	courseapi.RegisterRoutes(r, courseHandler)

	return r
}
