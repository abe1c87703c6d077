package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"vriksh/internal/config"
	"vriksh/internal/handlers"
	"vriksh/internal/identity"
	"vriksh/internal/repositories"
	"vriksh/internal/services"
	"vriksh/pkg/openai"
	"vriksh/pkg/rabbitmq"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// --- Configuration ---
	_ = godotenv.Load() // allow .env for local runs
	cfg, err := config.Load(viper.New())
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := newLogger(cfg.Log)

	// --- Database ---
	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Event publishing (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
		log.Info().Str("exchange", rabbitmq.DefaultExchange).Msg("publishing plant events")
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	plantRepo := repositories.NewGORMPlantRepository(db)
	checkRepo := repositories.NewGORMHealthCheckRepository(db)

	// --- Identity provider ---
	var provider identity.Provider
	switch cfg.Identity.Provider {
	case config.IdentitySupabase:
		provider = identity.NewSupabaseProvider(identity.SupabaseConfig{
			URL:    cfg.Identity.SupabaseURL,
			APIKey: cfg.Identity.SupabaseKey,
		})
	default:
		provider = identity.NewLocalProvider(db)
	}

	// --- Services ---
	tokens, err := services.NewTokenService(cfg.JWT.Secret, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}
	gateway := openai.NewClient(openai.Config{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
		Timeout: cfg.OpenAI.Timeout,
	})

	svc := handlers.Services{
		Tokens:    tokens,
		Auth:      services.NewAuthService(provider, userRepo, tokens, log),
		Plants:    services.NewPlantService(plantRepo, publisher, log),
		Identify:  services.NewIdentificationService(gateway, cfg.Server.MaxImageBytes, log),
		Diagnoses: services.NewDiagnosisService(gateway, plantRepo, checkRepo, publisher, log),
		Schedules: services.NewCareScheduleService(gateway, log),
	}

	// --- Fiber app ---
	app := handlers.NewApp(handlers.AppConfig{
		// base64 inflates images by a third; leave room for the JSON envelope
		BodyLimit: cfg.Server.MaxImageBytes*4/3 + 64<<10,
		AccessLog: true,
	}, svc, log)

	// --- Start HTTP Server ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("identity", cfg.Identity.Provider).Str("model", gateway.Model()).Msg("starting server")
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during Fiber shutdown")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("server gracefully stopped")
}

// newLogger builds the root logger: JSON by default, console when asked.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Str("service", "vriksh").Logger()
}

// openDatabase opens the configured driver with duplicate-key errors
// translated to gorm.ErrDuplicatedKey.
func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
	switch cfg.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
