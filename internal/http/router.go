package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sciingest/internal/handlers"
	"sciingest/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Service     service.IngestService
	Ingester    handlers.DirIngester
	VectorStore handlers.CollectionChecker
	DB          handlers.Pinger
	Collection  string
	IngestDir   string
	// Defaults fill the parameters a request omits.
	Defaults handlers.Defaults
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	articles := handlers.NewArticleHandler(deps.Service, deps.Defaults)
	documents := handlers.NewDocumentHandler(deps.Service, deps.Defaults)
	chunks := handlers.NewChunkHandler(deps.Service)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.VectorStore, deps.DB, deps.Collection))

		r.Post("/articles/process", articles.Process)
		r.Get("/articles/stats", articles.Stats)

		r.Post("/documents/text", documents.ProcessText)
		r.Delete("/documents/{sourceKey}", documents.Delete)

		r.Route("/chunks", func(r chi.Router) {
			r.Post("/", chunks.Create)
			r.Get("/", chunks.List)
			r.Post("/search", chunks.Search)
			r.Get("/{id}", chunks.Get)
			r.Put("/{id}/regenerate", chunks.Regenerate)
			r.Delete("/{id}", chunks.Delete)
		})

		r.Method(http.MethodPost, "/duplicates/check", handlers.NewDuplicateHandler(deps.Service, deps.Defaults))
		r.Method(http.MethodPost, "/chunk-preview", handlers.NewPreviewHandler(deps.Service))
		r.Method(http.MethodPost, "/ingest/scan", handlers.NewScanHandler(deps.Ingester, deps.IngestDir, deps.Defaults))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"sciingest","status":"running","health":"/api/health"}` + "\n"))
	})

	return r
}
