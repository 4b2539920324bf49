package config

// Constants defining default values for application configuration
const (
	DefaultMongoURI   = "mongodb://127.0.0.1:27017"
	DefaultDatabase   = "douban"
	DefaultCollection = "hot_tv"

	DefaultServerPort = 8000
	DefaultServerHost = "" // Empty string means all interfaces

	DefaultCrawlPageSize = 20  // Items per recommend-API page
	DefaultCrawlDelayMS  = 500 // Milliseconds between page fetches
	DefaultCrawlMaxPages = 0   // 0 means fetch until the source runs dry

	DefaultLogLevel = "debug"
)

// DefaultCORSOrigins are the browser origins allowed by default; they match the
// dashboard's dev servers.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://127.0.0.1:5173",
	"http://localhost:8080",
	"http://127.0.0.1:8080",
}
