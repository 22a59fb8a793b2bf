package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/gamecatalog/internal/catalog"
	"github.com/meur/gamecatalog/internal/logging"
	"github.com/meur/gamecatalog/internal/ratelimit"
)

// Options configures optional server behaviour
type Options struct {
	Logger         *zap.Logger
	Limiter        *ratelimit.Limiter // nil disables API rate limiting
	AllowedOrigins []string
	StaticDir      string // served at / when set
}

// Server holds the HTTP server dependencies
type Server struct {
	catalog *catalog.Catalog
	pages   *pages
	logger  *zap.Logger
	router  chi.Router
}

// New creates a new API server
func New(cat *catalog.Catalog, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		catalog: cat,
		pages:   newPages(),
		logger:  logger,
		router:  chi.NewRouter(),
	}

	s.setupMiddleware(opts)
	s.setupRoutes(opts)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware(opts Options) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes(opts Options) {
	s.router.Route("/api", func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}

		// Games
		r.Get("/games", s.handleGetGames)
		r.Get("/games/{gameID}", s.handleGetGame)

		// Search
		r.Get("/search", s.handleSearch)

		// Features
		r.Get("/features/classify", s.handleClassifyFeature)
	})

	// Pages
	s.router.Get("/search", s.handleSearchPage)
	s.router.Get("/browse", s.handleBrowsePage)

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if opts.StaticDir != "" {
		FileServer(s.router, "/", http.Dir(opts.StaticDir))
	} else {
		s.router.Get("/", http.RedirectHandler("/browse", http.StatusFound).ServeHTTP)
	}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", 301).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
