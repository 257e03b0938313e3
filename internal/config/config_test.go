package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
	assert.Equal(t, TableSourceCSV, cfg.Artifacts.TableSource)
	assert.Equal(t, "df_test_reduit.csv", cfg.Artifacts.TableFile)
	assert.Equal(t, "LGBM_TTS.json", cfg.Artifacts.ModelFile)
	assert.Equal(t, "SK_ID_CURR", cfg.Artifacts.IDColumn)
	assert.Empty(t, cfg.Artifacts.Dirs)
	assert.False(t, cfg.Artifacts.Watch)
	assert.Equal(t, 0.5, cfg.Scoring.Threshold)
	assert.True(t, cfg.Scoring.AttributionEnabled)
	assert.Equal(t, 10, cfg.Scoring.TopK)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "0.0.0.0:8501", cfg.UI.Addr())
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("SCORING_THRESHOLD", "0.35")
	t.Setenv("ATTRIBUTION_ENABLED", "false")
	t.Setenv("ARTIFACT_DIRS", " /srv/models , ,/data ")
	t.Setenv("TABLE_SOURCE", "Postgres")
	t.Setenv("UPSTREAM_TIMEOUT", "bogus")
	t.Setenv("API_KEY", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 0.35, cfg.Scoring.Threshold)
	assert.False(t, cfg.Scoring.AttributionEnabled)
	assert.Equal(t, []string{"/srv/models", "/data"}, cfg.Artifacts.Dirs)
	assert.Equal(t, TableSourcePostgres, cfg.Artifacts.TableSource)
	assert.Equal(t, 30*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "s3cret", cfg.APIKey)
}

func TestLoad_PortOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PORT", "10000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Server.Port)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SCORING_THRESHOLD", "1.5")
	t.Setenv("TABLE_SOURCE", "parquet")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCORING_THRESHOLD")
	assert.Contains(t, err.Error(), "parquet")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", Name: "scoring", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/scoring?sslmode=disable", d.DSN())
}
