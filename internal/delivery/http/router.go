package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/kervela/product_catalog/internal/config"
	"github.com/kervela/product_catalog/internal/delivery/http/handler"
	"github.com/kervela/product_catalog/internal/delivery/http/middleware"
	"github.com/kervela/product_catalog/internal/delivery/http/response"
	"github.com/kervela/product_catalog/internal/pkg/logger"
)

// Router holds HTTP handlers and router configuration
type Router struct {
	productHandler *handler.ProductHandler
	graphqlHandler http.Handler
	logger         *logger.Logger
	cfg            *config.Config
}

// NewRouter creates a new HTTP router
func NewRouter(
	productHandler *handler.ProductHandler,
	graphqlHandler http.Handler,
	cfg *config.Config,
	log *logger.Logger,
) *Router {
	return &Router{
		productHandler: productHandler,
		graphqlHandler: graphqlHandler,
		logger:         log,
		cfg:            cfg,
	}
}

// Setup configures and returns the HTTP router
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Not Found")
	})

	r.Get("/health", rt.healthCheck)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if rt.graphqlHandler != nil {
		r.Handle("/graphql", rt.graphqlHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Post("/", rt.productHandler.Create)
			r.Get("/", rt.productHandler.List)
			r.Get("/{id}", rt.productHandler.GetByID)
			r.Put("/{id}", rt.productHandler.Update)
			r.Delete("/{id}", rt.productHandler.Delete)
		})
	})

	return r
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
