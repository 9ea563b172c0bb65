// Package server is a reference implementation of the notification service
// the terminal client talks to. It serves the JSON endpoints, the shell page
// the client probes, and a per-notification detail page.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nhle/notification-center/internal/store"
)

// DefaultRecipient is the user every request is served as when no other
// recipient is configured.
const DefaultRecipient = "matrona"

// Options configures a Server.
type Options struct {
	// Recipient is the user whose notifications are served.
	Recipient string

	// CSRFToken is embedded in the shell page and required on every POST.
	// A random token is generated when empty.
	CSRFToken string

	// SessionKey, when set, must be presented as the sessionid cookie.
	SessionKey string

	// Title is shown in the shell page header.
	Title string

	Logger zerolog.Logger
}

// Server is the notification service HTTP server.
type Server struct {
	// router is the gin HTTP router.
	router *gin.Engine
	// store holds the notifications.
	store store.Store
	// recipient scopes every query.
	recipient string
	// token is the anti-forgery token served and checked.
	token string
	// sessionKey is the expected session cookie, empty when unauthenticated.
	sessionKey string
	title      string
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates a server over st and registers its routes.
func New(st store.Store, opts Options) *Server {
	if opts.Recipient == "" {
		opts.Recipient = DefaultRecipient
	}
	if opts.CSRFToken == "" {
		opts.CSRFToken = uuid.NewString()
	}
	if opts.Title == "" {
		opts.Title = "Registro Clínico"
	}

	logger := opts.Logger.With().Str("component", "server").Logger()

	router := gin.New()
	router.Use(Recovery(logger))
	router.Use(RequestLogger(logger))

	s := &Server{
		router:     router,
		store:      st,
		recipient:  opts.Recipient,
		token:      opts.CSRFToken,
		sessionKey: opts.SessionKey,
		title:      opts.Title,
		logger:     logger,
		now:        time.Now,
	}
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Token returns the anti-forgery token the server expects.
func (s *Server) Token() string {
	return s.token
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	}
}

// setupRoutes registers the shell page, the detail page and the JSON API.
func (s *Server) setupRoutes() {
	s.router.SetHTMLTemplate(pageTemplates)

	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "notifications"})
	})

	authed := s.router.Group("/")
	authed.Use(RequireSession(s.sessionKey))
	{
		authed.GET("/", s.handleShell())

		notifications := authed.Group("/notifications")
		{
			notifications.GET("/:id/", s.handleDetail())

			api := notifications.Group("/api")
			{
				api.GET("/conteo/", s.handleCount())
				api.GET("/lista/", s.handleList())

				mutating := api.Group("/")
				mutating.Use(RequireCSRF(s.token))
				mutating.POST("/marcar-leida/", s.handleMarkRead())
				mutating.POST("/marcar-todas-leidas/", s.handleMarkAllRead())
				mutating.POST("/eliminar/", s.handleDelete())
			}
		}
	}
}
