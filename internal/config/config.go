package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreScylla = "scylla"
	StoreMemory = "memory"
)

type Config struct {
	AppEnv           string        `envconfig:"APP_ENV" default:"development"`
	Port             string        `envconfig:"PORT" default:"8080"`
	DocumentStore    string        `envconfig:"DOCUMENT_STORE" default:"mongo"`
	CORSAllowOrigins string        `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
	CartTTL          time.Duration `envconfig:"CART_TTL" default:"720h"`
	ProductCacheTTL  time.Duration `envconfig:"PRODUCT_CACHE_TTL" default:"10m"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	Mongo            MongoConfig
	Scylla           ScyllaConfig
	Redis            RedisConfig
	MinIO            MinIOConfig
}

type MongoConfig struct {
	URI      string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	Database string `envconfig:"MONGO_DATABASE" default:"boutique"`
}

type ScyllaConfig struct {
	Hosts    []string      `envconfig:"SCYLLA_HOSTS" default:"127.0.0.1"`
	Keyspace string        `envconfig:"SCYLLA_KEYSPACE" default:"boutique"`
	Username string        `envconfig:"SCYLLA_USERNAME"`
	Password string        `envconfig:"SCYLLA_PASSWORD"`
	Timeout  time.Duration `envconfig:"SCYLLA_TIMEOUT" default:"5s"`
}

// RedisConfig : une adresse vide désactive Redis (cache et panier en mémoire).
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (r RedisConfig) Enabled() bool { return r.Addr != "" }

// MinIOConfig : la paire access/secret est le jeton lecture/écriture du blob store.
type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" required:"true"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" required:"true"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"boutique-images"`
	PublicURL string `envconfig:"MINIO_PUBLIC_URL"`
}

// BaseURL est la base des URLs publiques d'images.
func (m MinIOConfig) BaseURL() string {
	if m.PublicURL != "" {
		return m.PublicURL
	}
	scheme := "http"
	if m.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + m.Endpoint
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// Load lit un .env optionnel puis l'environnement.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("configuration invalide: %w", err)
	}

	if cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
		return nil, fmt.Errorf("MINIO_ACCESS_KEY et MINIO_SECRET_KEY sont obligatoires")
	}

	switch cfg.DocumentStore {
	case StoreMongo, StoreScylla, StoreMemory:
	default:
		return nil, fmt.Errorf("DOCUMENT_STORE inconnu %q (attendu: mongo, scylla, memory)", cfg.DocumentStore)
	}

	log.Printf("✅ Configuration chargée (env=%s, store=%s)", cfg.AppEnv, cfg.DocumentStore)
	return &cfg, nil
}
