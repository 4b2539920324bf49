package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DavidHLP/DoubanTV-Insight/internal/config"
	"github.com/DavidHLP/DoubanTV-Insight/internal/crawler"
	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
	"github.com/DavidHLP/DoubanTV-Insight/internal/server"
	"github.com/DavidHLP/DoubanTV-Insight/internal/store"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func main() {
	cfg := config.DefaultConfig()

	crawlCmd := flag.NewFlagSet("crawl", flag.ExitOnError)
	crawlCmd.StringVar(&cfg.MongoURI, "mongo-uri", config.GetEnvString("DOUBANTV_MONGO_URI", config.DefaultMongoURI),
		"MongoDB connection URI (env: DOUBANTV_MONGO_URI)")
	crawlCmd.StringVar(&cfg.Database, "database", config.GetEnvString("DOUBANTV_DATABASE", config.DefaultDatabase),
		"MongoDB database name (env: DOUBANTV_DATABASE)")
	crawlCmd.StringVar(&cfg.Collection, "collection", config.GetEnvString("DOUBANTV_COLLECTION", config.DefaultCollection),
		"MongoDB collection name (env: DOUBANTV_COLLECTION)")
	crawlCmd.IntVar(&cfg.CrawlPageSize, "page-size", config.GetEnvInt("DOUBANTV_PAGE_SIZE", config.DefaultCrawlPageSize),
		"Items to request per listing page (env: DOUBANTV_PAGE_SIZE)")
	crawlCmd.DurationVar(&cfg.CrawlDelay, "delay", config.GetEnvDuration("DOUBANTV_CRAWL_DELAY", time.Duration(config.DefaultCrawlDelayMS)*time.Millisecond),
		"Pause between listing page fetches (env: DOUBANTV_CRAWL_DELAY)")
	crawlCmd.IntVar(&cfg.CrawlMaxPages, "max-pages", config.GetEnvInt("DOUBANTV_MAX_PAGES", config.DefaultCrawlMaxPages),
		"Maximum listing pages to fetch, 0 for no limit (env: DOUBANTV_MAX_PAGES)")

	var crawlLogLevelStr string
	crawlCmd.StringVar(&crawlLogLevelStr, "log-level", config.GetEnvString("DOUBANTV_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: DOUBANTV_LOG_LEVEL)")

	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&cfg.MongoURI, "mongo-uri", config.GetEnvString("DOUBANTV_MONGO_URI", config.DefaultMongoURI),
		"MongoDB connection URI (env: DOUBANTV_MONGO_URI)")
	serverCmd.StringVar(&cfg.Database, "database", config.GetEnvString("DOUBANTV_DATABASE", config.DefaultDatabase),
		"MongoDB database name (env: DOUBANTV_DATABASE)")
	serverCmd.StringVar(&cfg.Collection, "collection", config.GetEnvString("DOUBANTV_COLLECTION", config.DefaultCollection),
		"MongoDB collection name (env: DOUBANTV_COLLECTION)")
	serverCmd.StringVar(&cfg.ServerHost, "host", config.GetEnvString("DOUBANTV_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: DOUBANTV_HOST)")
	serverCmd.IntVar(&cfg.ServerPort, "port", config.GetEnvInt("DOUBANTV_PORT", config.DefaultServerPort),
		"Port to listen on (env: DOUBANTV_PORT)")

	var serverLogLevelStr string
	serverCmd.StringVar(&serverLogLevelStr, "log-level", config.GetEnvString("DOUBANTV_LOG_LEVEL", config.DefaultLogLevel),
		"Log level: debug, info, warn, error (env: DOUBANTV_LOG_LEVEL)")

	if len(os.Args) < 2 {
		fmt.Println("Usage: doubantv [command] [options]")
		fmt.Println("Commands: crawl, server")
		fmt.Println("\nFor command-specific options, use: doubantv [command] -h")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "crawl":
		crawlCmd.Parse(os.Args[2:])

		// Handle log level parsing separately since it needs conversion
		if level, err := zerolog.ParseLevel(crawlLogLevelStr); err == nil {
			cfg.LogLevel = level
		}

		zerolog.SetGlobalLevel(cfg.LogLevel)

		err := runCrawl(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Crawl failed")
			os.Exit(1)
		}

	case "server":
		serverCmd.Parse(os.Args[2:])

		// Handle log level parsing separately
		if level, err := zerolog.ParseLevel(serverLogLevelStr); err == nil {
			cfg.LogLevel = level
		}

		zerolog.SetGlobalLevel(cfg.LogLevel)

		err := runServer(cfg)
		if err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		fmt.Println("Usage: doubantv [command] [options]")
		fmt.Println("Commands: crawl, server")
		fmt.Println("\nFor command-specific options, use: doubantv [command] -h")
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println("Available commands: crawl, server")
		fmt.Println("\nFor command-specific options, use: doubantv [command] -h")
		os.Exit(1)
	}
}

// runCrawl fetches the full hot-TV listing and saves it as the day's snapshot.
// A rerun on the same day replaces that day's document.
func runCrawl(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
	}()

	st, err := store.New(ctx, store.NewConfig(cfg.MongoURI, cfg.Database, cfg.Collection))
	if err != nil {
		log.Error().Err(err).Str("uri", cfg.MongoURI).Msg("Failed to initialize snapshot store")
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close snapshot store")
		}
	}()

	if err := st.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to ensure indexes, continuing")
	}

	client := crawler.New(crawler.Config{
		PageSize: cfg.CrawlPageSize,
		Delay:    cfg.CrawlDelay,
		MaxPages: cfg.CrawlMaxPages,
	})

	startTime := time.Now()
	shows, err := client.FetchAll(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("Crawl canceled by shutdown signal")
			return nil
		}
		return fmt.Errorf("failed to fetch listing: %w", err)
	}

	pages, items := client.Stats()
	log.Info().
		Int("pages", pages).
		Int("items", items).
		Dur("duration", time.Since(startTime)).
		Msg("Listing fetched")

	if len(shows) == 0 {
		return fmt.Errorf("no items fetched, nothing to save")
	}

	snap := models.NewSnapshot(shows, time.Now())
	if err := st.SaveSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// runServer starts the HTTP API server with the provided configuration.
func runServer(cfg *config.Config) error {
	log.Debug().Msg("Starting server with debug logging enabled")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	st, err := store.New(ctx, store.NewConfig(cfg.MongoURI, cfg.Database, cfg.Collection))
	if err != nil {
		log.Error().Err(err).Str("uri", cfg.MongoURI).Msg("Failed to initialize snapshot store")
		return fmt.Errorf("failed to initialize snapshot store: %w", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		if err := st.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("Failed to close snapshot store")
		}
	}()

	return server.RunServer(st, cfg.ListenAddr(), cfg.CORSOrigins, log.Logger)
}
