package main

import (
	"context"
	"io"
	"time"

	"github.com/dimitrije/tripvote-api/internal/config"
	"github.com/dimitrije/tripvote-api/internal/database"
	"github.com/dimitrije/tripvote-api/internal/firstlogin"
	"github.com/dimitrije/tripvote-api/internal/handlers"
	"github.com/dimitrije/tripvote-api/internal/kvstore"
	"github.com/dimitrije/tripvote-api/internal/logger"
	"github.com/dimitrije/tripvote-api/internal/server"
	"github.com/dimitrije/tripvote-api/internal/services"
	"github.com/dimitrije/tripvote-api/internal/sse"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		logrus.Fatalf("Failed to set up logging: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store, err := kvstore.Open(cfg.KV, db)
	if err != nil {
		log.Fatalf("Failed to open kv store: %v", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	hub := sse.NewHub()
	go hub.Run()

	tracker := firstlogin.NewTracker(store, log.WithField("component", "firstlogin"))

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db, log)
	tokenService := services.NewTokenService(db)
	preferenceService := services.NewPreferenceService(store)
	roleService := services.NewRoleService(db, cfg.SuperAdminEmail, cfg.RoleCacheSize, cfg.RoleCacheTTL, log)
	accessService := services.NewAccessService(roleService, preferenceService, log)
	authService := services.NewAuthService(userService, tokenService, jwtService, tracker, preferenceService, hub, log)
	emailService := services.NewEmailService(cfg.SMTP)
	notificationService := services.NewNotificationService(db)
	adventureService := services.NewAdventureService(db, log)
	destinationService := services.NewDestinationService(db)
	voteService := services.NewVoteService(db, hub)
	participantService := services.NewParticipantService(db, userService, notificationService, emailService, hub, cfg.BaseURL, log)
	detailService := services.NewDetailService(adventureService, destinationService, voteService, participantService)
	legacyVoteService := services.NewLegacyVoteService(db)

	router := server.Router(jwtService, accessService, server.Handlers{
		Auth:         handlers.NewAuthHandler(authService),
		User:         handlers.NewUserHandler(userService),
		Access:       handlers.NewAccessHandler(accessService, preferenceService),
		Admin:        handlers.NewAdminHandler(roleService, legacyVoteService, tracker),
		Adventure:    handlers.NewAdventureHandler(adventureService, detailService, destinationService, voteService),
		Participant:  handlers.NewParticipantHandler(adventureService, participantService),
		Notification: handlers.NewNotificationHandler(notificationService, hub, cfg.NotificationPollInterval),
		Legacy:       handlers.NewLegacyHandler(legacyVoteService),
		SSE:          handlers.NewSSEHandler(hub, adventureService),
		Live:         handlers.NewLiveHandler(hub, adventureService, log.WithField("component", "live")),
	}, server.Options{
		Release:            cfg.IsProduction(),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		RateLimitBurst:     cfg.RateLimitBurst,
		Log:                log,
	})

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			if n, err := tokenService.CleanupExpired(context.Background()); err != nil {
				log.WithError(err).Warn("refresh token cleanup failed")
			} else {
				log.WithField("removed", n).Debug("expired refresh tokens removed")
			}
			if err := tracker.Cleanup(context.Background()); err != nil {
				log.WithError(err).Warn("first login cleanup failed")
			}
		}
	}()

	if err := server.New(cfg.Port, router, log).Run(); err != nil {
		log.WithError(err).Error("server exited")
	}
}
