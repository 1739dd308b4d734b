package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"github.com/yolmane/fintech-project-manager/backend/tracker-service/logging"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendFile      = "file"
	BackendMemory    = "memory"
	BackendMongo     = "mongo"
	BackendRedis     = "redis"
	BackendCassandra = "cassandra"
)

// TrackerConfig holds runtime configuration for the tracker service and CLI.
type TrackerConfig struct {
	Port           string
	CORSOrigin     string
	StorageBackend string
	SnapshotKey    string
	DataDir        string

	MongoURI        string
	MongoDBName     string
	MongoCollection string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CassandraHost     string
	CassandraKeyspace string

	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string

	LogFile  string
	LogLevel string
	SeedFile string

	StoreBreakerTimeout time.Duration
}

// LoadEnvFile reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Logger.Warnf("Event ID: ENV_FILE_MISSING, Description: %s not found, using process environment", path)
		return nil
	}
	return err
}

// LoadTrackerConfig constructs a TrackerConfig from environment variables.
func LoadTrackerConfig() TrackerConfig {
	return TrackerConfig{
		Port:                GetString("SERVER_PORT", "8000"),
		CORSOrigin:          GetString("CORS_ORIGIN", "*"),
		StorageBackend:      GetString("STORAGE_BACKEND", BackendFile),
		SnapshotKey:         GetString("SNAPSHOT_KEY", "projectManagerData"),
		DataDir:             GetString("DATA_DIR", "data"),
		MongoURI:            GetString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:         GetString("MONGO_DB_NAME", "tracker"),
		MongoCollection:     GetString("MONGO_COLLECTION", "snapshots"),
		RedisAddr:           GetString("REDIS_ADDR", "localhost:6379"),
		RedisPassword:       GetString("REDIS_PASSWORD", ""),
		RedisDB:             GetInt("REDIS_DB", 0),
		CassandraHost:       GetString("CASS_DB", "localhost"),
		CassandraKeyspace:   GetString("CASS_KEYSPACE", "tracker"),
		Neo4jURI:            GetString("NEO4J_URI", ""),
		Neo4jUsername:       GetString("NEO4J_USERNAME", "neo4j"),
		Neo4jPassword:       GetString("NEO4J_PASSWORD", ""),
		LogFile:             GetString("LOG_FILE", ""),
		LogLevel:            GetString("LOG_LEVEL", "info"),
		SeedFile:            GetString("SEED_FILE", ""),
		StoreBreakerTimeout: time.Duration(GetInt("STORE_BREAKER_TIMEOUT_SECONDS", 5)) * time.Second,
	}
}
