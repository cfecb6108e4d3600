// Package server assembles the HTTP surface and runs it with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/tripvote-api/internal/access"
	"github.com/dimitrije/tripvote-api/internal/handlers"
	authmw "github.com/dimitrije/tripvote-api/internal/middleware"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Access       *handlers.AccessHandler
	Admin        *handlers.AdminHandler
	Adventure    *handlers.AdventureHandler
	Participant  *handlers.ParticipantHandler
	Notification *handlers.NotificationHandler
	Legacy       *handlers.LegacyHandler
	SSE          *handlers.SSEHandler
	Live         *handlers.LiveHandler
}

type Options struct {
	Release bool
	// RateLimitPerMinute of 0 disables the limiter.
	RateLimitPerMinute int
	RateLimitBurst     int
	Log                logrus.FieldLogger
}

// Router builds the drift application serving /api/v1.
func Router(jwt *services.JWTService, resolver authmw.AccessResolver, h Handlers, opts Options) http.Handler {
	app := drift.New()

	if opts.Release {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())
	if opts.RateLimitPerMinute > 0 {
		app.Use(authmw.RateLimit(opts.RateLimitPerMinute, opts.RateLimitBurst, opts.Log))
	}

	api := app.Group("/api/v1")

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := api.Group("/auth")
	auth.Post("/signup", h.Auth.SignUp)
	auth.Post("/signin", h.Auth.SignIn)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/signout", h.Auth.SignOut)

	api.Get("/destinations", h.Legacy.ListDestinations)
	api.Get("/destinations/:key", h.Legacy.GetDestination)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwt))
	protected.Use(authmw.Access(resolver))

	protected.Get("/auth/session", h.Auth.Session)
	protected.Post("/auth/signout-all", h.Auth.SignOutAll)

	protected.Get("/users/me", h.User.GetMe)
	protected.Get("/users/me/profile", h.User.GetProfile)
	protected.Patch("/users/me/profile", h.User.UpdateProfile)

	protected.Get("/me/access", h.Access.Get)
	protected.Patch("/me/preferences", h.Access.UpdatePreferences)
	protected.Get("/me/destination-votes", h.Legacy.MyVotes)

	protected.Get("/destinations/:key/results", h.Legacy.Results)
	protected.Post("/destinations/:key/vote", h.Legacy.Vote)

	protected.Get("/adventures", h.Adventure.List)
	protected.Post("/adventures", h.Adventure.Create)
	protected.Get("/adventures/:adventureId", h.Adventure.Get)
	protected.Patch("/adventures/:adventureId", h.Adventure.Update)
	protected.Delete("/adventures/:adventureId", h.Adventure.Delete)
	protected.Post("/adventures/:adventureId/destinations", h.Adventure.AddDestination)
	protected.Patch("/adventure-destinations/:destinationId", h.Adventure.EditDestination)
	protected.Delete("/adventure-destinations/:destinationId", h.Adventure.DeleteDestination)
	protected.Post("/adventure-destinations/:destinationId/votes", h.Adventure.CastVote)

	protected.Get("/adventures/:adventureId/participants", h.Participant.List)
	protected.Post("/adventures/:adventureId/participants", h.Participant.Add)
	protected.Delete("/adventures/:adventureId/participants/:participantId", h.Participant.Remove)
	protected.Get("/invitations", h.Participant.Invitations)
	protected.Post("/invitations/:invitationId/accept", h.Participant.Accept)
	protected.Post("/invitations/:invitationId/decline", h.Participant.Decline)

	protected.Get("/notifications", h.Notification.List)
	protected.Get("/notifications/unread-count", h.Notification.UnreadCount)
	protected.Get("/notifications/stream", h.Notification.Stream)
	protected.Post("/notifications/read-all", h.Notification.MarkAllRead)
	protected.Post("/notifications/:notificationId/read", h.Notification.MarkRead)

	protected.Get("/sse/events", h.SSE.Connect)
	protected.Post("/sse/:clientId/subscribe/:adventureId", h.SSE.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:adventureId", h.SSE.Unsubscribe)
	protected.Get("/ws", h.Live.Connect)

	stats := api.Group("/admin")
	stats.Use(authmw.Auth(jwt))
	stats.Use(authmw.Access(resolver))
	stats.Use(authmw.RequirePermission(access.PermViewStatistics))
	stats.Get("/statistics", h.Admin.Statistics)
	stats.Get("/first-logins", h.Admin.FirstLogins)
	stats.Delete("/first-logins", h.Admin.ResetFirstLogins)

	superOnly := api.Group("/admin")
	superOnly.Use(authmw.Auth(jwt))
	superOnly.Use(authmw.Access(resolver))
	superOnly.Use(authmw.RequireSuperAdmin())
	superOnly.Get("/users", h.Admin.ListUsers)
	superOnly.Patch("/users/:userId/access", h.Admin.UpdateUserAccess)

	return app
}

type Server struct {
	httpServer      *http.Server
	log             logrus.FieldLogger
	shutdownTimeout time.Duration
}

// New mounts router behind request metrics and exposes /metrics next to it.
func New(port string, router http.Handler, log logrus.FieldLogger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", authmw.Metrics(router))

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log:             log,
		shutdownTimeout: 10 * time.Second,
	}
}

// Run serves until SIGINT or SIGTERM, then drains open requests.
func (s *Server) Run() error {
	errCh := make(chan error, 1)

	go func() {
		s.log.WithField("addr", s.httpServer.Addr).Info("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.log.WithField("signal", sig.String()).Info("shutting down server")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	s.log.Info("server stopped")
	return nil
}
