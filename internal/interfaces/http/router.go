package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/manorfm/casting-agency/internal/application"
	"github.com/manorfm/casting-agency/internal/domain"
	"github.com/manorfm/casting-agency/internal/infrastructure/config"
	"github.com/manorfm/casting-agency/internal/infrastructure/database"
	"github.com/manorfm/casting-agency/internal/infrastructure/jwks"
	jwtvalidator "github.com/manorfm/casting-agency/internal/infrastructure/jwt"
	"github.com/manorfm/casting-agency/internal/infrastructure/metrics"
	"github.com/manorfm/casting-agency/internal/infrastructure/repository"
	"github.com/manorfm/casting-agency/internal/interfaces/http/handlers"
	"github.com/manorfm/casting-agency/internal/interfaces/http/middleware/auth"
	"github.com/manorfm/casting-agency/internal/interfaces/http/middleware/cors"
	"github.com/manorfm/casting-agency/internal/interfaces/http/middleware/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitTTL = 3 * time.Minute

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Router struct {
	router      *chi.Mux
	rateLimiter *ratelimit.RateLimiter
}

// RouterDeps are the collaborators the HTTP layer is built from
type RouterDeps struct {
	Authorizer   domain.Authorizer
	ActorService domain.ActorService
	MovieService domain.MovieService
	Store        Pinger
	Registry     *prometheus.Registry
	Config       *config.Config
	Logger       *zap.Logger
}

// NewRouter wires the key set cache, token validator, authorization guard
// and persistence into the HTTP routes.
func NewRouter(db *database.Postgres, cfg *config.Config, logger *zap.Logger) (*Router, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	keySet := jwks.New(jwks.Config{
		URL:             cfg.JWKSURL(),
		FetchTimeout:    cfg.JWKSFetchTimeout,
		RefreshCooldown: cfg.JWKSRefreshCooldown,
	}, m, logger)

	validator, err := jwtvalidator.NewValidator(keySet, jwtvalidator.Config{
		Audience:   cfg.APIAudience,
		Issuer:     cfg.Issuer(),
		Algorithms: cfg.Algorithms,
		Leeway:     cfg.JWTLeeway,
	}, logger)
	if err != nil {
		return nil, err
	}

	actorRepo := repository.NewActorRepository(db, logger)
	movieRepo := repository.NewMovieRepository(db, logger)

	return newRouter(RouterDeps{
		Authorizer:   application.NewAuthorizationService(validator, m, logger),
		ActorService: application.NewActorService(actorRepo, cfg.PageSize, logger),
		MovieService: application.NewMovieService(movieRepo, cfg.PageSize, logger),
		Store:        db,
		Registry:     registry,
		Config:       cfg,
		Logger:       logger,
	}), nil
}

func newRouter(deps RouterDeps) *Router {
	logger := deps.Logger
	authMiddleware := auth.NewAuthMiddleware(deps.Authorizer, logger)
	actorHandler := handlers.NewActorHandler(deps.ActorService, logger)
	movieHandler := handlers.NewMovieHandler(deps.MovieService, logger)

	// Create router with middleware
	router := createRouter(deps.Config.CORSAllowedOrigin)

	rateLimiter := ratelimit.NewRateLimiter(rate.Limit(deps.Config.RateLimitRPS), deps.Config.RateLimitBurst, rateLimitTTL, logger)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			// Check database connection
			if err := deps.Store.Ping(r.Context()); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	router.Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))

	// Swagger UI configuration
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
		httpSwagger.DeepLinking(true),
		httpSwagger.PersistAuthorization(true),
	))

	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "docs/swagger.json")
	})

	router.Route("/actors", func(r chi.Router) {
		r.Get("/", authMiddleware.RequiresAuth(domain.PermissionGetActors, actorHandler.ListActorsHandler))
		r.Post("/", authMiddleware.RequiresAuth(domain.PermissionPostActors, actorHandler.CreateActorHandler))
		r.Get("/{id}", authMiddleware.RequiresAuth(domain.PermissionGetActors, actorHandler.GetActorHandler))
		r.Patch("/{id}", authMiddleware.RequiresAuth(domain.PermissionPatchActors, actorHandler.UpdateActorHandler))
		r.Delete("/{id}", authMiddleware.RequiresAuth(domain.PermissionDeleteActors, actorHandler.DeleteActorHandler))
	})

	router.Route("/movies", func(r chi.Router) {
		r.Get("/", authMiddleware.RequiresAuth(domain.PermissionGetMovies, movieHandler.ListMoviesHandler))
		r.Post("/", authMiddleware.RequiresAuth(domain.PermissionPostMovies, movieHandler.CreateMovieHandler))
		r.Get("/{id}", authMiddleware.RequiresAuth(domain.PermissionGetMovies, movieHandler.GetMovieHandler))
		r.Patch("/{id}", authMiddleware.RequiresAuth(domain.PermissionPatchMovies, movieHandler.UpdateMovieHandler))
		r.Delete("/{id}", authMiddleware.RequiresAuth(domain.PermissionDeleteMovies, movieHandler.DeleteMovieHandler))
	})

	return &Router{router: router, rateLimiter: rateLimiter}
}

func createRouter(allowedOrigin string) *chi.Mux {
	router := chi.NewRouter()

	// Add middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))
	router.Use(cors.Middleware(allowedOrigin))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Close releases the background resources held by the router
func (r *Router) Close() {
	r.rateLimiter.Stop()
}
