package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Database   DatabaseConfig   `yaml:"database"`
	Import     ImportConfig     `yaml:"import"`
	Enrichment EnrichmentConfig `yaml:"enrichment"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"127.0.0.1"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// ExternalRateLimit caps import and enrichment requests per client per
	// minute. Zero disables the limit.
	ExternalRateLimit int `yaml:"external_rate_limit" env:"SERVER_EXTERNAL_RATE_LIMIT" env-default:"30"`
}

// Storage drivers.
const (
	DriverBadger   = "badger"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Value codecs.
const (
	CodecJSON    = "json"
	CodecMsgpack = "msgpack"
)

// StorageConfig selects the key-value backend for the progress store.
type StorageConfig struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"badger"`
	// Path is the badger directory or the sqlite database file.
	Path  string `yaml:"path"  env:"STORAGE_PATH"  env-default:"./data"`
	Codec string `yaml:"codec" env:"STORAGE_CODEC" env-default:"json"`
}

// DatabaseConfig holds PostgreSQL connection settings for the postgres driver.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"4"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ImportConfig bounds remote source fetching.
type ImportConfig struct {
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"IMPORT_FETCH_TIMEOUT" env-default:"30s"`
	MaxBytes     int64         `yaml:"max_bytes"     env:"IMPORT_MAX_BYTES"     env-default:"10485760"`
	UserAgent    string        `yaml:"user_agent"    env:"IMPORT_USER_AGENT"    env-default:"lexipath/1.0"`
}

// EnrichmentConfig holds the dictionary and synonym service settings.
type EnrichmentConfig struct {
	DictionaryURL      string        `yaml:"dictionary_url"       env:"ENRICH_DICTIONARY_URL"       env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	SynonymURL         string        `yaml:"synonym_url"          env:"ENRICH_SYNONYM_URL"          env-default:"https://api.datamuse.com/words"`
	Timeout            time.Duration `yaml:"timeout"              env:"ENRICH_TIMEOUT"              env-default:"10s"`
	MaxSynonyms        int           `yaml:"max_synonyms"         env:"ENRICH_MAX_SYNONYMS"         env-default:"10"`
	MaxFetchedExamples int           `yaml:"max_fetched_examples" env:"ENRICH_MAX_FETCHED_EXAMPLES" env-default:"3"`
	MaxExamples        int           `yaml:"max_examples"         env:"ENRICH_MAX_EXAMPLES"         env-default:"5"`
	Workers            int           `yaml:"workers"              env:"ENRICH_WORKERS"              env-default:"4"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
