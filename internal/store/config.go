package store

import "time"

const (
	defaultConnectTimeout = 10 * time.Second
	defaultQueryTimeout   = 15 * time.Second
)

// Config holds snapshot store configuration settings
type Config struct {
	// Required settings
	URI        string
	Database   string
	Collection string

	// Optional settings (will use defaults if not set)
	ConnectTimeout time.Duration
	QueryTimeout   time.Duration
}

// NewConfig creates a new store configuration with default timeouts
func NewConfig(uri, database, collection string) *Config {
	return &Config{
		URI:            uri,
		Database:       database,
		Collection:     collection,
		ConnectTimeout: defaultConnectTimeout,
		QueryTimeout:   defaultQueryTimeout,
	}
}
