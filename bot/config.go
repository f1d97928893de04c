package bot

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/oleglapko/poizon-2/core/config"
	"github.com/oleglapko/poizon-2/core/database"
	"github.com/oleglapko/poizon-2/healthz"
	"github.com/oleglapko/poizon-2/orders"
	"github.com/oleglapko/poizon-2/pricing"
	"github.com/oleglapko/poizon-2/rates"
)

// Record store backends selectable via orders.backend.
const (
	BackendSheet    = "sheet"
	BackendPostgres = "postgres"
)

// RatesConfig extends the CBR client settings with the currency to quote
// and the constant used when the feed is down.
type RatesConfig struct {
	rates.Config `yaml:",inline"`

	Currency     string  `yaml:"currency" envconfig:"RATES_CURRENCY"`
	FallbackRate float64 `yaml:"fallback_rate" envconfig:"RATES_FALLBACK_RATE"`
}

// OrdersConfig selects and configures the order record store backend.
type OrdersConfig struct {
	Backend string             `yaml:"backend" envconfig:"ORDERS_BACKEND"`
	Sheet   orders.SheetConfig `yaml:"sheet"`
}

// Config is the full bot configuration: the reusable core sections plus
// the quoting-domain sections.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database database.Config `yaml:"database"`
	Pricing  pricing.Config  `yaml:"pricing"`
	Rates    RatesConfig     `yaml:"rates"`
	Orders   OrdersConfig    `yaml:"orders"`
	Health   healthz.Config  `yaml:"health"`

	// ManagerContact is the handle users are pointed to for checkout and
	// non-standard items.
	ManagerContact string `yaml:"manager_contact" envconfig:"MANAGER_CONTACT"`
}

// CoreConfig exposes the embedded core configuration to the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads the YAML file, applies environment overrides, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalize(cfg *Config) error {
	cfg.Pricing.Normalize()

	if strings.TrimSpace(cfg.Rates.Currency) == "" {
		cfg.Rates.Currency = "CNY"
	}
	if cfg.Rates.FallbackRate <= 0 {
		cfg.Rates.FallbackRate = rates.DefaultFallbackRate
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Orders.Backend))
	switch backend {
	case "", BackendSheet:
		backend = BackendSheet
	case BackendPostgres:
	default:
		return fmt.Errorf("invalid orders.backend %q; allowed: sheet, postgres", cfg.Orders.Backend)
	}
	cfg.Orders.Backend = backend

	if strings.TrimSpace(cfg.ManagerContact) == "" {
		cfg.ManagerContact = "@the_poiz_adm"
	}
	return nil
}
