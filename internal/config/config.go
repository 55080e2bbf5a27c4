package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	StorageBackendLocal    = "local"
	StorageBackendPostgres = "postgres"
)

type Config struct {
	PostgresAddress  string `koanf:"postgres_address"`
	PostgresPort     string `koanf:"postgres_port"`
	PostgresDB       string `koanf:"postgres_db"`
	PostgresUsername string `koanf:"postgres_username"`
	PostgresPassword string `koanf:"postgres_password"`

	StorageBackend   string `koanf:"storage_backend"`
	LocalStoragePath string `koanf:"local_storage_path"`

	HTTPPort        string `koanf:"http_port"`
	OperatorWorkers int    `koanf:"operator_workers"`
	LogLevel        string `koanf:"log_level"`
	DefaultCurrency string `koanf:"default_currency"`

	JWTSecret string `koanf:"jwt_secret"`
	JWTIssuer string `koanf:"jwt_issuer"`

	KafkaBrokers     []string `koanf:"kafka_brokers"`
	KafkaTopicPrefix string   `koanf:"kafka_topic_prefix"`

	GeminiAPIKey            string        `koanf:"gemini_api_key"`
	GeminiModel             string        `koanf:"gemini_model"`
	AdvisorFailureThreshold int           `koanf:"advisor_failure_threshold"`
	AdvisorResetTimeout     time.Duration `koanf:"advisor_reset_timeout"`
}

// defaults target the docker compose setup.
var defaults = map[string]interface{}{
	"postgres_address":          "localhost",
	"postgres_port":             "5433",
	"postgres_db":               "postgres",
	"postgres_username":         "postgres",
	"postgres_password":         "testpassword",
	"storage_backend":           StorageBackendLocal,
	"local_storage_path":        "data/finance.json",
	"http_port":                 "9446",
	"operator_workers":          4,
	"log_level":                 "info",
	"default_currency":          "TWD",
	"jwt_secret":                "",
	"jwt_issuer":                "finance-server",
	"kafka_brokers":             []string{},
	"kafka_topic_prefix":        "finance",
	"gemini_api_key":            "",
	"gemini_model":              "gemini-2.5-flash",
	"advisor_failure_threshold": 3,
	"advisor_reset_timeout":     "30s",
}

// ProcessEnvironmentVariables loads defaults, then the YAML file named by
// CONFIG_FILE if set, then environment variables. A .env file in the working
// directory is read into the environment first.
func ProcessEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("godotenv.Load: %w", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if !k.Exists(key) {
			return ""
		}
		return key
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageBackendLocal, StorageBackendPostgres:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.OperatorWorkers < 1 {
		return fmt.Errorf("OPERATOR_WORKERS must be positive, got %d", c.OperatorWorkers)
	}
	return nil
}

// PostgresConnectionString builds the lib/pq DSN for the configured database.
// Credentials are escaped, so passwords may contain URL delimiters.
func (c *Config) PostgresConnectionString() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     net.JoinHostPort(c.PostgresAddress, c.PostgresPort),
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return dsn.String()
}
