package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Store settings
	MongoURI   string
	Database   string
	Collection string

	// Server settings
	ServerHost  string
	ServerPort  int
	CORSOrigins []string

	// Crawl settings
	CrawlPageSize int
	CrawlDelay    time.Duration
	CrawlMaxPages int

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults,
// letting environment variables override the store connection settings.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		MongoURI:      GetEnvString("DOUBANTV_MONGO_URI", DefaultMongoURI),
		Database:      GetEnvString("DOUBANTV_DATABASE", DefaultDatabase),
		Collection:    GetEnvString("DOUBANTV_COLLECTION", DefaultCollection),
		ServerHost:    DefaultServerHost,
		ServerPort:    DefaultServerPort,
		CORSOrigins:   DefaultCORSOrigins,
		CrawlPageSize: DefaultCrawlPageSize,
		CrawlDelay:    time.Duration(DefaultCrawlDelayMS) * time.Millisecond,
		CrawlMaxPages: DefaultCrawlMaxPages,
		LogLevel:      logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
