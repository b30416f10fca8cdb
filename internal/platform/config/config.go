package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config concentra toda la configuración del servicio, leída de env vars.
// Los límites de rate-limit son presupuestos fijos por usuario por ventana.
type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	AppName   string `env:"APP_NAME" envDefault:"couple-pet-care"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// Si DB_DSN está vacío, el router usa repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	// Secreto HS256 para verificar tokens de sesión. Vacío = modo dev
	// (X-Debug-User-ID).
	JWTSecret string `env:"AUTH_JWT_SECRET"`

	// Servicio externo de generación de mensajes (celebraciones).
	// Vacío = notifier noop.
	MessagesBaseURL string `env:"MESSAGES_BASE_URL"`
	MessagesAPIKey  string `env:"MESSAGES_API_KEY"`

	CareRateLimit      int           `env:"CARE_RATE_LIMIT" envDefault:"100"`
	EvolutionRateLimit int           `env:"EVOLUTION_RATE_LIMIT" envDefault:"50"`
	RateLimitWindow    time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5m"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
