package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aishanaaz19/assignment-growthx/config"
	"github.com/aishanaaz19/assignment-growthx/internal/db"
	"github.com/aishanaaz19/assignment-growthx/internal/handlers"
	"github.com/aishanaaz19/assignment-growthx/internal/logging"
	"github.com/aishanaaz19/assignment-growthx/internal/mq"
	"github.com/aishanaaz19/assignment-growthx/internal/services"
	"github.com/aishanaaz19/assignment-growthx/internal/session"
	"github.com/aishanaaz19/assignment-growthx/internal/storage"
	"github.com/aishanaaz19/assignment-growthx/internal/store"
	"github.com/aishanaaz19/assignment-growthx/internal/views"
	"github.com/aishanaaz19/assignment-growthx/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const redisPingTimeout = 5 * time.Second

// Server wraps the HTTP server, the router and every backend it opened.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	logger     zerolog.Logger
	closers    []closer
}

type closer struct {
	name  string
	close func() error
}

type repositories struct {
	users       services.IdentityRepository
	admins      services.IdentityRepository
	assignments services.AssignmentRepository
}

// New opens the configured backends and builds the router.
func New(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Server, error) {
	if cfg.Session.Secret == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}

	s := &Server{logger: logger}
	ok := false
	defer func() {
		if !ok {
			s.closeAll()
		}
	}()

	repos, err := s.openRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sessionStore, err := s.openSessionStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var attachments services.AttachmentStorage
	objects, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if objects != nil {
		attachments = objects
		s.track("storage", objects.Close)
		logger.Info().Str("backend", cfg.StorageBackend).Str("bucket", objects.Bucket()).Msg("attachments enabled")
	}

	var events services.EventPublisher
	broker, err := mq.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open mq: %w", err)
	}
	if broker != nil {
		events = broker
		s.track("mq", broker.Close)
		logger.Info().Str("backend", cfg.MQBackend).Msg("assignment events enabled")
	}

	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewManager(sessionStore, session.Options{
		Secret: cfg.Session.Secret,
		TTL:    cfg.Session.TTL,
		Secure: !cfg.IsDev(),
	})
	if err != nil {
		return nil, err
	}

	deps := handlers.Dependencies{
		Identities:          services.NewIdentityService(repos.users, repos.admins),
		Assignments:         services.NewAssignmentService(repos.assignments, attachments, events, logger),
		Sessions:            sessions,
		Views:               renderer,
		AdminRequireSession: cfg.AdminRequireSession,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		logging.RequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(60*time.Second),
		corsHandler(cfg.CORSAllowedOrigins),
		sessions.Load,
	)
	handlers.Mount(router, deps)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	s.router = router
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	ok = true
	return s, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then closes the backends.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.closeAll()
	return err
}

func (s *Server) openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DBDriverPostgres:
		conn, err := db.Open(ctx, cfg.Database)
		if err != nil {
			return repositories{}, fmt.Errorf("open postgres: %w", err)
		}
		s.track("postgres", conn.Close)

		users, err := store.NewIdentityRepository(conn, types.RoleUser)
		if err != nil {
			return repositories{}, err
		}
		admins, err := store.NewIdentityRepository(conn, types.RoleAdmin)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			users:       users,
			admins:      admins,
			assignments: store.NewAssignmentRepository(conn),
		}, nil

	case config.DBDriverMongo:
		client, database, err := db.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return repositories{}, fmt.Errorf("open mongo: %w", err)
		}
		s.track("mongo", func() error { return client.Disconnect(context.Background()) })

		users, err := store.NewMongoIdentityRepository(database, types.RoleUser)
		if err != nil {
			return repositories{}, err
		}
		admins, err := store.NewMongoIdentityRepository(database, types.RoleAdmin)
		if err != nil {
			return repositories{}, err
		}
		assignments := store.NewMongoAssignmentRepository(database)

		for _, indexed := range []interface{ EnsureIndexes(context.Context) error }{users, admins, assignments} {
			if err := indexed.EnsureIndexes(ctx); err != nil {
				return repositories{}, fmt.Errorf("ensure mongo indexes: %w", err)
			}
		}
		return repositories{users: users, admins: admins, assignments: assignments}, nil

	default:
		return repositories{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (s *Server) openSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "", config.SessionStoreMemory:
		return session.NewMemoryStore(), nil

	case config.SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		s.track("redis", client.Close)
		return session.NewRedisStore(client), nil

	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Session.Store)
	}
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	allowAll := len(origins) == 0
	for _, origin := range origins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: !allowAll,
		MaxAge:           300,
	})
}

func (s *Server) track(name string, fn func() error) {
	s.closers = append(s.closers, closer{name: name, close: fn})
}

func (s *Server) closeAll() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.close(); err != nil {
			s.logger.Warn().Err(err).Str("backend", c.name).Msg("close backend")
		}
	}
	s.closers = nil
}
