package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"runtracker/internal/auth"
	"runtracker/internal/remote"
	"runtracker/internal/store"
)

// Options configure the runs service
type Options struct {
	// Secret signs and verifies session tokens
	Secret []byte
	// TokenTTL is the lifetime of issued session tokens
	TokenTTL time.Duration
	// RequestsPerMinute limits each client address; zero disables the limit
	RequestsPerMinute int
	Logger            *slog.Logger
}

// Server is the remote runs service
type Server struct {
	App *fiber.App

	db       *store.DB
	secret   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer builds the fiber app with all routes registered
func NewServer(db *store.DB, opts Options) *Server {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = auth.DefaultTokenTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		db:       db,
		secret:   opts.Secret,
		tokenTTL: opts.TokenTTL,
		logger:   opts.Logger,
		now:      time.Now,
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          s.handleError,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(s.logRequests)
	if opts.RequestsPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RequestsPerMinute,
			Expiration: time.Minute,
		}))
	}

	s.App = app
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	accounts := s.App.Group("/auth")
	accounts.Post("/register", s.register)
	accounts.Post("/login", s.login)

	session := RequireSession(s.secret)
	s.App.Get("/runs", session, s.listRuns)
	s.App.Post("/runs", session, s.saveRun)
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.App.Listen(addr)
	}()

	s.logger.Info("runs service listening", "addr", addr)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.App.ShutdownWithContext(shutdownCtx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
	}
	s.logger.Debug("request",
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"duration", time.Since(start))
	return err
}

// handleError renders every failure in the {success, error} envelope
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "internal error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	} else {
		s.logger.Error("request failed", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(remote.ErrorResponse{Success: false, Error: msg})
}
