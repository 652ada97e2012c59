package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/btmxh/folio/internal/auth"
	"github.com/btmxh/folio/internal/clock"
	"github.com/btmxh/folio/internal/db"
	"github.com/btmxh/folio/internal/icons"
	"github.com/btmxh/folio/internal/media"
	"github.com/btmxh/folio/internal/routes"
	"github.com/btmxh/folio/internal/services"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "folio",
	Short:             "Portfolio server with embedded video players",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              serve,
}

// setup loads .env and installs the logger. Every subcommand goes through it.
func setup(cmd *cobra.Command, args []string) error {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to load .env file: %w", err)
	}

	logLevel := slog.LevelDebug
	if levelStr, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err = logLevel.UnmarshalText([]byte(levelStr)); err != nil {
			fmt.Fprintln(os.Stderr, "(warn) Invalid value for LOG_LEVEL environment variable")
		}
	}

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      logLevel,
		TimeFormat: time.DateTime,
	})

	slog.SetDefault(slog.New(logHandler))
	return nil
}

func openDB() error {
	dbUrl, ok := os.LookupEnv("DATABASE_URL")
	if !ok {
		return fmt.Errorf("required environment variable DATABASE_URL not set")
	}

	if err := db.InitDB(dbUrl); err != nil {
		return err
	}

	slog.Info("Database connection initialized")
	return nil
}

func lookupDuration(name string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration in environment variable, using default", "name", name, "value", value, "default", fallback)
		return fallback
	}
	return d
}

func newCatalog(c clock.Clock) *services.Catalog {
	return services.NewCatalog(c, lookupDuration("ROLES_CACHE_TTL", services.DefaultRolesCacheTTL), icons.Default())
}

func serve(cmd *cobra.Command, args []string) error {
	if err := openDB(); err != nil {
		return err
	}
	defer db.CloseDB()

	if err := auth.InitJWT(); err != nil {
		return err
	}

	youtubeApiKey, _ := os.LookupEnv("YOUTUBE_API_KEY")
	if youtubeApiKey == "" {
		slog.Info("YOUTUBE_API_KEY not provided, resolving YouTube metadata with yt-dlp")
	}

	realClock := clock.Real()
	sockets := services.NewWebSocketManager(realClock)
	defer sockets.Close()

	router := routes.CreateMainRouter(routes.Dependencies{
		Resolver: media.NewResolver(realClock, lookupDuration("MEDIA_INFO_CACHE_TTL", media.DefaultInfoCacheTTL), media.DefaultSources(youtubeApiKey)...),
		Catalog:  newCatalog(realClock),
		Sockets:  sockets,
	})

	addr, ok := os.LookupEnv("FOLIO_ADDR")
	if !ok {
		addr = "localhost:6972"
		slog.Info("FOLIO_ADDR not provided, using default '" + addr + "'")
	}

	cert, hasCert := os.LookupEnv("HTTPS_CERT_FILE")
	key, hasKey := os.LookupEnv("HTTPS_KEY_FILE")

	if hasKey && hasCert {
		slog.Info("Starting HTTPS server", slog.String("addr", addr), slog.String("cert", cert), slog.String("key", key))
		return http.ListenAndServeTLS(addr, cert, key, router)
	}

	slog.Info("Starting HTTP server", slog.String("addr", addr))
	return http.ListenAndServe(addr, router)
}
