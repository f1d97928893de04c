package bot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oleglapko/poizon-2/rates"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: test-token
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "longpoll", cfg.Telegram.RunMode)
	assert.Equal(t, "CNY", cfg.Rates.Currency)
	assert.InDelta(t, rates.DefaultFallbackRate, cfg.Rates.FallbackRate, 1e-9)
	assert.Equal(t, BackendSheet, cfg.Orders.Backend)
	assert.Equal(t, "@the_poiz_adm", cfg.ManagerContact)
	assert.InDelta(t, 1.09, cfg.Pricing.Markup, 1e-9)
	assert.InDelta(t, 800, cfg.Pricing.GroundRatePerKg, 1e-9)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: test-token
pricing:
  markup: 1.12
  ground_rate_per_kg: 789
orders:
  backend: postgres
manager_contact: "@someone_else"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 1.12, cfg.Pricing.Markup, 1e-9)
	assert.InDelta(t, 789, cfg.Pricing.GroundRatePerKg, 1e-9)
	assert.Equal(t, BackendPostgres, cfg.Orders.Backend)
	assert.Equal(t, "@someone_else", cfg.ManagerContact)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: test-token
orders:
  backend: redis
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	path := writeConfig(t, `
telegram:
  run_mode: longpoll
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
