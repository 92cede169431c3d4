package config

import (
	"fmt"
	"slices"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.ExternalRateLimit < 0 {
		return fmt.Errorf("server.external_rate_limit must be >= 0 (got %d)", c.Server.ExternalRateLimit)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	if c.Storage.Driver == DriverPostgres && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}

	if c.Import.FetchTimeout <= 0 {
		return fmt.Errorf("import.fetch_timeout must be > 0 (got %v)", c.Import.FetchTimeout)
	}
	if c.Import.MaxBytes <= 0 {
		return fmt.Errorf("import.max_bytes must be > 0 (got %d)", c.Import.MaxBytes)
	}

	if err := c.Enrichment.validate(); err != nil {
		return fmt.Errorf("enrichment: %w", err)
	}

	format := strings.ToLower(c.Log.Format)
	if format != "json" && format != "text" {
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	drivers := []string{DriverBadger, DriverSQLite, DriverPostgres, DriverMemory}
	if !slices.Contains(drivers, s.Driver) {
		return fmt.Errorf("driver must be one of %s (got %q)", strings.Join(drivers, ", "), s.Driver)
	}

	s.Codec = strings.ToLower(strings.TrimSpace(s.Codec))
	if s.Codec != CodecJSON && s.Codec != CodecMsgpack {
		return fmt.Errorf("codec must be json or msgpack (got %q)", s.Codec)
	}

	if (s.Driver == DriverBadger || s.Driver == DriverSQLite) && s.Path == "" {
		return fmt.Errorf("path is required for the %s driver", s.Driver)
	}
	return nil
}

func (e *EnrichmentConfig) validate() error {
	if e.DictionaryURL == "" || e.SynonymURL == "" {
		return fmt.Errorf("dictionary_url and synonym_url are required")
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", e.Timeout)
	}
	if e.MaxSynonyms <= 0 {
		return fmt.Errorf("max_synonyms must be > 0 (got %d)", e.MaxSynonyms)
	}
	if e.MaxExamples <= 0 {
		return fmt.Errorf("max_examples must be > 0 (got %d)", e.MaxExamples)
	}
	if e.MaxFetchedExamples < 0 || e.MaxFetchedExamples > e.MaxExamples {
		return fmt.Errorf("max_fetched_examples must be between 0 and max_examples (got %d)", e.MaxFetchedExamples)
	}
	if e.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", e.Workers)
	}
	return nil
}
