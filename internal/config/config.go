package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Feature table sources.
const (
	TableSourceCSV      = "csv"
	TableSourcePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Artifacts ArtifactConfig
	Scoring   ScoringConfig
	Database  DatabaseConfig
	Upstream  UpstreamConfig
	UI        UIConfig
	APIKey    string
}

type ServerConfig struct {
	Host string
	Port int
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level  string
	Format string
	File   string
}

type ArtifactConfig struct {
	TableSource string
	TableFile   string
	ModelFile   string
	Dirs        []string
	SearchRoot  string
	Watch       bool
	IDColumn    string
}

type ScoringConfig struct {
	Threshold          float64
	AttributionEnabled bool
	TopK               int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	Table    string
}

// DSN returns a libpq-style connection URL.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type UpstreamConfig struct {
	URL     string
	Timeout time.Duration
}

type UIConfig struct {
	Host string
	Port int
}

func (u UIConfig) Addr() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "json")
	v.SetDefault("LOGGER_FILE", "")
	v.SetDefault("API_KEY", "")
	v.SetDefault("TABLE_SOURCE", TableSourceCSV)
	v.SetDefault("TABLE_FILE", "df_test_reduit.csv")
	v.SetDefault("MODEL_FILE", "LGBM_TTS.json")
	v.SetDefault("ARTIFACT_DIRS", "")
	v.SetDefault("ARTIFACT_SEARCH_ROOT", "")
	v.SetDefault("ARTIFACT_WATCH", false)
	v.SetDefault("ID_COLUMN", "SK_ID_CURR")
	v.SetDefault("SCORING_THRESHOLD", 0.5)
	v.SetDefault("ATTRIBUTION_ENABLED", true)
	v.SetDefault("ATTRIBUTION_TOP_K", 10)
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", 5432)
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_NAME", "scoring")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_TABLE", "df_test_reduit")
	v.SetDefault("UPSTREAM_URL", "http://localhost:8000")
	v.SetDefault("UPSTREAM_TIMEOUT", "30s")
	v.SetDefault("UI_HOST", "0.0.0.0")
	v.SetDefault("UI_PORT", 8501)

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("UPSTREAM_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}

	port := v.GetInt("SERVER_PORT")
	// Hosting platforms inject PORT.
	if p := v.GetInt("PORT"); p > 0 {
		port = p
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("SERVER_HOST"),
			Port: port,
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
			File:   v.GetString("LOGGER_FILE"),
		},
		Artifacts: ArtifactConfig{
			TableSource: strings.ToLower(v.GetString("TABLE_SOURCE")),
			TableFile:   v.GetString("TABLE_FILE"),
			ModelFile:   v.GetString("MODEL_FILE"),
			Dirs:        splitList(v.GetString("ARTIFACT_DIRS")),
			SearchRoot:  v.GetString("ARTIFACT_SEARCH_ROOT"),
			Watch:       v.GetBool("ARTIFACT_WATCH"),
			IDColumn:    v.GetString("ID_COLUMN"),
		},
		Scoring: ScoringConfig{
			Threshold:          v.GetFloat64("SCORING_THRESHOLD"),
			AttributionEnabled: v.GetBool("ATTRIBUTION_ENABLED"),
			TopK:               v.GetInt("ATTRIBUTION_TOP_K"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DATABASE_HOST"),
			Port:     v.GetInt("DATABASE_PORT"),
			User:     v.GetString("DATABASE_USER"),
			Password: v.GetString("DATABASE_PASSWORD"),
			Name:     v.GetString("DATABASE_NAME"),
			SSLMode:  v.GetString("DATABASE_SSLMODE"),
			Table:    v.GetString("DATABASE_TABLE"),
		},
		Upstream: UpstreamConfig{
			URL:     v.GetString("UPSTREAM_URL"),
			Timeout: timeout,
		},
		UI: UIConfig{
			Host: v.GetString("UI_HOST"),
			Port: v.GetInt("UI_PORT"),
		},
		APIKey: v.GetString("API_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 1 {
		errs = append(errs, fmt.Errorf("SCORING_THRESHOLD must be within [0, 1], got %v", c.Scoring.Threshold))
	}
	switch c.Artifacts.TableSource {
	case TableSourceCSV, TableSourcePostgres:
	default:
		errs = append(errs, fmt.Errorf("unknown TABLE_SOURCE %q", c.Artifacts.TableSource))
	}
	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be positive, got %d", c.Server.Port))
	}
	if c.UI.Port <= 0 {
		errs = append(errs, fmt.Errorf("UI_PORT must be positive, got %d", c.UI.Port))
	}
	if c.Artifacts.IDColumn == "" {
		errs = append(errs, errors.New("ID_COLUMN must not be empty"))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
