package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
provider:
  base_url: http://localhost:9000
  symbols: [AAPL, MSFT]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesAnalysisDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 252, cfg.Analysis.TradingPeriodsPerYear)
	assert.Equal(t, 20, cfg.Analysis.RollingWindow)
	assert.Equal(t, 2, cfg.Analysis.MinValidObservations)
	assert.Equal(t, "forward", cfg.Analysis.FillStrategy)
	assert.Zero(t, cfg.Analysis.RiskFreeRate)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadRejectsMissingProvider(t *testing.T) {
	_, err := Load(writeConfig(t, "environment: test\n"))
	assert.ErrorContains(t, err, "provider.base_url")
}

func TestLoadRejectsBadFillStrategy(t *testing.T) {
	body := minimalYAML + `
analysis:
  fill_strategy: backward
`
	_, err := Load(writeConfig(t, body))
	assert.ErrorContains(t, err, "fill_strategy")
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("SYMBOLS", "TSLA,AMZN")
	t.Setenv("PROVIDER_API_KEY", "secret")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"TSLA", "AMZN"}, cfg.Provider.Symbols)
	assert.Equal(t, "secret", cfg.Provider.APIKey)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
}
