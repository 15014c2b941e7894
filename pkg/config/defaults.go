package config

import "time"

const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"
)

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "Schoolclasses"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultStoreBackend = StoreBackendMongo
	DefaultSeedOnStart  = true
	// Empty means the catalog embedded in the binary.
	DefaultSeedCatalogPath = ""

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 120
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultCORSAllowedOrigins = "*"

	DefaultKafkaEnabled        = false
	DefaultEventPublishTimeout = 5 * time.Second
)
