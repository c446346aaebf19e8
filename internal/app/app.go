package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	"nusachat/backend/internal/api"
	"nusachat/backend/internal/config"
	"nusachat/backend/internal/database"
	"nusachat/backend/internal/llm"
	"nusachat/backend/internal/observe"
	"nusachat/backend/internal/repository"
	"nusachat/backend/internal/service"
)

// App bundles the assembled server with the resources it owns.
type App struct {
	Server *http.Server
	Repo   repository.Repository

	cleanup func()
}

// NewApp wires the whole service together from configuration: store,
// provider registry, policies, services, handlers, router.
func NewApp(cfg *config.Config) (*App, error) {
	repo, cleanup, err := buildRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("could not initialize repository: %w", err)
	}

	providers := llm.NewRegistry(llm.Config{
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		AnthropicAPIKey:  cfg.AnthropicAPIKey,
		AnthropicBaseURL: cfg.AnthropicBaseURL,
		GoogleAPIKey:     cfg.GoogleAPIKey,
		GoogleBaseURL:    cfg.GoogleBaseURL,
	})

	policy := service.NewAccessPolicy(cfg.FreeModelList(), cfg.DefaultFreeModel, cfg.DefaultPremiumModel)
	titles := service.NewTitleService(repo, providers)
	chatService := service.NewChatService(repo, providers, policy, titles, service.Options{
		PersistOnDisconnect: cfg.PersistOnDisconnect,
		Sink:                observe.NewSlogSink(slog.Default()),
	})

	chatHandler := api.NewChatHandler(chatService)
	router := api.NewRouter(chatHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Server: server, Repo: repo, cleanup: cleanup}, nil
}

// Close releases the app's resources.
func (a *App) Close() {
	a.cleanup()
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "backend", cfg.RepositoryBackend, "error", err)
		return 1
	}
	defer app.Close()

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

// buildRepository constructs the configured persistence backend and returns
// it with a cleanup function for its underlying connection.
func buildRepository(cfg *config.Config) (repository.Repository, func(), error) {
	switch strings.ToLower(cfg.RepositoryBackend) {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			return nil, func() {}, fmt.Errorf("could not connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		slog.Info("Successfully connected to Redis.", "addr", cfg.RedisAddr)
		cleanup := func() {
			if err := rdb.Close(); err != nil {
				slog.Error("Failed to close redis connection", "error", err)
			}
		}
		return repository.NewRedisRepository(rdb), cleanup, nil

	case "sqlite":
		db, err := database.InitDB(cfg.DatabasePath)
		if err != nil {
			return nil, func() {}, err
		}
		slog.Info("Successfully connected to SQLite database.", "path", cfg.DatabasePath)
		cleanup := func() {
			if err := db.Close(); err != nil {
				slog.Error("Failed to close database connection", "error", err)
			}
		}
		return repository.NewSQLiteRepository(db), cleanup, nil

	default:
		return nil, func() {}, fmt.Errorf("unknown repository backend %q", cfg.RepositoryBackend)
	}
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
