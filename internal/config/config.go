// Package config provides centralized configuration management for the viewer.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Dataset sources.
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	View     ViewConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8050)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8050"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`

	// RequestTimeout is the middleware timeout for requests (default: 15s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"15s"`
}

// DatasetConfig describes where the GDP table comes from and how to read it.
type DatasetConfig struct {
	// Source is "file" or "postgres" (default: file)
	Source string `env:"DATASET_SOURCE" default:"file"`

	// Path is the .csv, .tsv or .xlsx file to load (default: gdp_pcap.csv)
	Path string `env:"DATASET_PATH" default:"gdp_pcap.csv"`

	// Sheet is the worksheet name for .xlsx files (default: first sheet)
	Sheet string `env:"DATASET_SHEET"`

	// CountryColumn is the header of the country identifier column (default: country)
	CountryColumn string `env:"DATASET_COUNTRY_COLUMN" default:"country"`

	// Delimiter is the field separator for delimited files (default: ",")
	Delimiter string `env:"DATASET_DELIMITER" default:","`

	// Abbreviations lists the accepted scale markers (default: k)
	Abbreviations []string `env:"DATASET_ABBREVIATIONS" default:"k"`

	// Table is the long-format table read when Source is postgres (default: gdp_pcap)
	Table string `env:"DATASET_TABLE" default:"gdp_pcap"`
}

// DatabaseConfig holds database connection settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required when DATASET_SOURCE=postgres)
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// ConnectTimeout bounds the one-off dataset query (default: 30s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"30s"`
}

// ViewConfig holds the page text and the initial control values.
type ViewConfig struct {
	Heading     string `env:"VIEW_HEADING" default:"GDP Per Capita Analysis"`
	Description string `env:"VIEW_DESCRIPTION" default:"This interactive application allows users to explore GDP per capita across different countries and time periods. Select multiple countries and a range of years to visualize how GDP per capita has evolved."`
	ChartTitle  string `env:"VIEW_CHART_TITLE" default:"GDP Per Capita Over Time"`

	// DefaultCountries is the initial dropdown selection (default: USA)
	DefaultCountries []string `env:"VIEW_DEFAULT_COUNTRIES" default:"USA"`

	// DefaultFrom and DefaultTo are the initial slider handles (default: 2000-2010)
	DefaultFrom int `env:"VIEW_DEFAULT_FROM" default:"2000"`
	DefaultTo   int `env:"VIEW_DEFAULT_TO" default:"2010"`

	// MarkStep is the distance in years between slider marks (default: 50)
	MarkStep int `env:"VIEW_MARK_STEP" default:"50"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 600)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"600"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// ScriptCDN is the origin allowed to serve plotly.js (default: https://cdn.plot.ly)
	ScriptCDN string `env:"SECURITY_SCRIPT_CDN" default:"https://cdn.plot.ly"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// DelimiterRune returns the first rune of Delimiter, with "\t" accepted as an escape.
func (c *DatasetConfig) DelimiterRune() rune {
	if c.Delimiter == `\t` {
		return '\t'
	}
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}
