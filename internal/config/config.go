package config

import (
	"os"
	"strings"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/utils"
)

// Config holds all application configuration. Everything comes from the
// environment; the process refuses to start without the secrets it needs.
type Config struct {
	AppName         string
	AppPort         string
	CORSOrigins     []string
	DBUrl           string
	TurnstileSecret string
	JWTSecret       []byte
	DeployHookURL   string
	Production      bool
}

func LoadConfig() *Config {
	utils.Logger.Info("Loading config for app: ", constants.AppName)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DATABASE_URL env var is missing")
	}
	turnstileSecret := os.Getenv("TURNSTILE_SECRET")
	if turnstileSecret == "" {
		utils.Logger.Fatal("TURNSTILE_SECRET env var is missing")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		utils.Logger.Fatal("JWT_SECRET env var is missing")
	}

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		appPort = "8080"
	}

	production := strings.EqualFold(os.Getenv("PRODUCTION"), "true")

	corsOrigins := constants.DevCORSOrigins
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		corsOrigins = nil
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	} else if production {
		utils.Logger.Fatal("CORS_ORIGINS env var is missing (required in production)")
	}

	utils.Logger.Infof("Loaded config for %s (production=%t)", constants.AppName, production)

	return &Config{
		AppName:         constants.AppName,
		AppPort:         appPort,
		CORSOrigins:     corsOrigins,
		DBUrl:           dbURL,
		TurnstileSecret: turnstileSecret,
		JWTSecret:       []byte(jwtSecret),
		DeployHookURL:   os.Getenv("DEPLOY_HOOK_URL"),
		Production:      production,
	}
}
