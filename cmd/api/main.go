package main

import (
	"log"
	"net/http"
	"time"

	"couple-pet-care/internal/adapters/auth/jwtauth"
	"couple-pet-care/internal/adapters/notify/messages"
	mem "couple-pet-care/internal/adapters/storage/memory"
	pg "couple-pet-care/internal/adapters/storage/postgres"
	"couple-pet-care/internal/platform/config"
	"couple-pet-care/internal/platform/logger"
	"couple-pet-care/internal/ports/auth"
	"couple-pet-care/internal/ports/notify"
	"couple-pet-care/internal/router"
)

// @title        Couple Pet Care API
// @version      1.0
// @description  API de cuidado y evolución de mascotas virtuales compartidas por parejas.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	appLog := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	opts := router.Options{
		Log:                appLog,
		RateLimitStore:     mem.NewRateLimitStore(),
		CareRateLimit:      cfg.CareRateLimit,
		EvolutionRateLimit: cfg.EvolutionRateLimit,
		RateLimitWindow:    cfg.RateLimitWindow,
	}

	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer db.Close()
		opts.DB = db
	}

	// Sin secreto = modo dev (X-Debug-User-ID). El middleware lo resuelve.
	var verifier auth.AuthVerifier
	if cfg.JWTSecret != "" {
		verifier = jwtauth.NewVerifier(cfg.JWTSecret)
	}
	opts.AuthVerifier = verifier

	var notifier notify.Notifier = notify.Noop{}
	if cfg.MessagesBaseURL != "" {
		notifier = messages.NewClient(cfg.MessagesBaseURL, cfg.MessagesAPIKey)
	}
	opts.Notifier = notifier

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:         addr,
		Handler:      router.NewRouter(opts),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	appLog.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
