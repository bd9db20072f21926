package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs, one per concern: the published-rates page,
// the on-disk log, chart rendering, the HTTP server and the optional Postgres mirror.
//
// Example ENV equivalent:
//
//	SOURCE_URL=https://www.boc.cn/sourcedb/whpj/
//	SOURCE_ROW_LABEL=欧元
//	HTTP_TIMEOUT=15s
//	DATA_FILE=boc_eur_spot.txt
//	PLOT_OUT=eur_spot_trend.png
//	SERVER_PORT=8080
//	POSTGRES_ENABLED=false
type Config struct {
	Source   SourceConfig   // Published-rates page and HTTP client settings
	Storage  StorageConfig  // Tab-separated log file location
	Plot     PlotConfig     // Chart rendering settings
	Server   ServerConfig   // HTTP server configuration (serve mode)
	Postgres PostgresConfig // Optional Postgres mirror
}

// SourceConfig describes where the daily rate is published and how to find it.
//
// Fields:
//   - URL: page that carries the rates table.
//   - TableID: id attribute of the rates table.
//   - RowLabel: substring matched against the first cell of each data row.
//   - Timeout: whole-request timeout for the single GET.
//   - UserAgent: browser-like User-Agent sent with the request.
type SourceConfig struct {
	URL       string
	TableID   string
	RowLabel  string
	Timeout   time.Duration
	UserAgent string
}

// StorageConfig holds the path of the append-only log.
type StorageConfig struct {
	DataFile string
}

// PlotConfig holds chart rendering settings.
type PlotConfig struct {
	Out   string
	Title string
	DPI   int
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string
}

// PostgresConfig defines connection details for the optional Postgres mirror.
//
// Fields:
//   - Enabled: mirror appended records into Postgres when true.
//   - Host, Port, User, Password, DBName, SSLMode: connection parameters.
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// Defaults for the published page and the files the CLI reads and writes.
const (
	DefaultSourceURL = "https://www.boc.cn/sourcedb/whpj/"
	DefaultTableID   = "priceTable"
	DefaultRowLabel  = "欧元"
	DefaultDataFile  = "boc_eur_spot.txt"
	DefaultPlotOut   = "eur_spot_trend.png"
	DefaultPlotTitle = "BOC EUR to CNY"
)

// LoadConfig builds a Config by reading from .env file or directly from
// environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Returns an error listing every missing or invalid required key.
func LoadConfig() (Config, error) {
	v := viper.New()

	v.SetDefault("SOURCE_URL", DefaultSourceURL)
	v.SetDefault("SOURCE_TABLE_ID", DefaultTableID)
	v.SetDefault("SOURCE_ROW_LABEL", DefaultRowLabel)
	v.SetDefault("HTTP_TIMEOUT", "15s")
	v.SetDefault("HTTP_USER_AGENT", "Mozilla/5.0")

	v.SetDefault("DATA_FILE", DefaultDataFile)

	v.SetDefault("PLOT_OUT", DefaultPlotOut)
	v.SetDefault("PLOT_TITLE", DefaultPlotTitle)
	v.SetDefault("PLOT_DPI", 200)

	v.SetDefault("SERVER_PORT", "8080")

	v.SetDefault("POSTGRES_ENABLED", false)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_PASSWORD", "postgres")
	v.SetDefault("POSTGRES_DB", "bocspot")
	v.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	cfg := Config{
		Source: SourceConfig{
			URL:       strings.TrimSpace(v.GetString("SOURCE_URL")),
			TableID:   strings.TrimSpace(v.GetString("SOURCE_TABLE_ID")),
			RowLabel:  strings.TrimSpace(v.GetString("SOURCE_ROW_LABEL")),
			Timeout:   v.GetDuration("HTTP_TIMEOUT"),
			UserAgent: v.GetString("HTTP_USER_AGENT"),
		},
		Storage: StorageConfig{
			DataFile: v.GetString("DATA_FILE"),
		},
		Plot: PlotConfig{
			Out:   v.GetString("PLOT_OUT"),
			Title: v.GetString("PLOT_TITLE"),
			DPI:   v.GetInt("PLOT_DPI"),
		},
		Server: ServerConfig{
			Port: v.GetString("SERVER_PORT"),
		},
		Postgres: PostgresConfig{
			Enabled:  v.GetBool("POSTGRES_ENABLED"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetInt("POSTGRES_PORT"),
			User:     v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			DBName:   v.GetString("POSTGRES_DB"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
	}

	cfg.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validateConfig checks every critical field and reports all problems at once.
//
// Postgres fields are only required when the mirror is enabled.
func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Source.URL == "" {
		missing = append(missing, "SOURCE_URL")
	}
	if cfg.Source.TableID == "" {
		missing = append(missing, "SOURCE_TABLE_ID")
	}
	if cfg.Source.RowLabel == "" {
		missing = append(missing, "SOURCE_ROW_LABEL")
	}
	if cfg.Source.Timeout <= 0 {
		missing = append(missing, "HTTP_TIMEOUT")
	}
	if cfg.Storage.DataFile == "" {
		missing = append(missing, "DATA_FILE")
	}
	if cfg.Plot.Out == "" {
		missing = append(missing, "PLOT_OUT")
	}
	if cfg.Plot.DPI <= 0 {
		missing = append(missing, "PLOT_DPI")
	}
	if cfg.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if cfg.Postgres.Enabled {
		if cfg.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if cfg.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing or invalid configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
