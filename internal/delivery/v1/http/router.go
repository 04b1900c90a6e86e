package http

import (
	"context"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/DRSN-tech/indexer-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/indexer-backend/internal/usecase"
	"github.com/DRSN-tech/indexer-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(indexerUC usecase.IndexerUC, shutdownCtx context.Context) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		handler := NewIndexHandler(indexerUC, shutdownCtx, r.logger)
		registerIndexRoutes(v1, handler)
	})
}

func registerIndexRoutes(router chi.Router, handler *IndexHandler) {
	router.Route("/index", func(idx chi.Router) {
		idx.Post("/", handler.startFullIndex)
		idx.Post("/text", handler.startTextPass)
		idx.Post("/image", handler.startImagePass)
	})

	router.Route("/runs", func(runs chi.Router) {
		runs.Get("/", handler.listRuns)
		runs.Get("/{id}", handler.getRun)
	})
}
