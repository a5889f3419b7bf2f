package router

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"shelfmap/internal/api/editor"
	"shelfmap/internal/api/placement"
	"shelfmap/internal/api/shelf"
	"shelfmap/internal/pkg/cache"
	"shelfmap/internal/pkg/logger"
	"shelfmap/internal/pkg/metrics"
	"shelfmap/internal/pkg/middleware"
	"shelfmap/internal/pkg/token"
)

// Handlers reúne os Handlers já inicializados por injeção de dependências.
type Handlers struct {
	Shelf     *shelf.Handler
	Placement *placement.Handler
	Editor    *editor.Handler
}

// Options configura os middlewares globais.
type Options struct {
	Tokens      middleware.TokenService
	Cache       cache.Client // nil desliga o rate limit
	RateLimit   int
	RatePeriod  time.Duration
	CORSOrigins []string
	Logger      logger.Logger
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := mux.NewRouter()

	// --- 1. Middlewares globais ---
	r.Use(middleware.RequestLogger(opts.Logger))
	if opts.Cache != nil && opts.RateLimit > 0 {
		r.Use(middleware.RateLimiter(opts.Cache, opts.RateLimit, opts.RatePeriod, opts.Logger))
	}

	// --- 2. Health check, métricas e documentação ---
	r.HandleFunc("/ping", PingHandler).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// --- 3. Leituras públicas (catálogo, layout, localização, ordenação) ---
	r.HandleFunc("/inventory/api/shelves", h.Shelf.ListShelvesHandler).Methods(http.MethodGet)
	r.HandleFunc("/inventory/api/layout", h.Placement.LayoutHandler).Methods(http.MethodGet)
	r.HandleFunc("/inventory/api/item-location", h.Placement.ItemLocationHandler).Methods(http.MethodGet)
	r.HandleFunc("/inventory/locations/sort", h.Placement.GetSortConfigHandler).Methods(http.MethodGet)

	auth := middleware.NewAuthMiddleware(opts.Tokens)

	// --- 4. Gravações: exigem token de operador, admin ou do próprio editor ---
	writes := r.NewRoute().Subrouter()
	writes.Use(auth, middleware.PermissionMiddleware(token.RoleOperator, token.RoleAdmin, token.RoleService))
	writes.HandleFunc("/inventory/reorder-items", h.Placement.ReorderItemsHandler).Methods(http.MethodPost)
	writes.HandleFunc("/inventory/locations/save", h.Placement.SaveAssignmentsHandler).Methods(http.MethodPost)
	writes.HandleFunc("/inventory/locations/sort", h.Placement.SaveSortConfigHandler).Methods(http.MethodPost)

	// --- 5. Editor de localizações (v1) ---
	editorRoutes := r.PathPrefix("/v1/editor").Subrouter()
	editorRoutes.Use(auth, middleware.PermissionMiddleware(token.RoleOperator, token.RoleAdmin))
	h.Editor.Mount(editorRoutes)

	c := cors.New(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Remaining"},
		AllowCredentials: true,
	})
	return c.Handler(r)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
