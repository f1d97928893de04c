// Package pricing computes landed-cost quotes for goods bought in CNY and
// delivered to Russia. The computation is pure: all tunables live in Config
// and the exchange rate is passed in by the caller.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

// Category of the quoted item. Affects the assumed parcel weight.
type Category string

const (
	CategoryShoes   Category = "shoes"
	CategoryApparel Category = "apparel"
	CategoryOther   Category = "other"
)

// Method is the China to Russia shipping method.
type Method string

const (
	MethodGround Method = "ground"
	MethodAir    Method = "air"
)

// Config holds the pricing tunables. Zero values are replaced by the
// production defaults in Normalize.
type Config struct {
	Markup          float64 `yaml:"markup" envconfig:"PRICING_MARKUP"`
	CommissionRate  float64 `yaml:"commission_rate" envconfig:"PRICING_COMMISSION_RATE"`
	WeightShoesKg   float64 `yaml:"weight_shoes_kg" envconfig:"PRICING_WEIGHT_SHOES_KG"`
	WeightDefaultKg float64 `yaml:"weight_default_kg" envconfig:"PRICING_WEIGHT_DEFAULT_KG"`
	GroundRatePerKg float64 `yaml:"ground_rate_per_kg" envconfig:"PRICING_GROUND_RATE_PER_KG"`
	AirRatePerKg    float64 `yaml:"air_rate_per_kg" envconfig:"PRICING_AIR_RATE_PER_KG"`
}

// Normalize fills unset fields with production defaults.
func (c *Config) Normalize() {
	if c.Markup <= 0 {
		c.Markup = 1.09
	}
	if c.CommissionRate <= 0 {
		c.CommissionRate = 0.10
	}
	if c.WeightShoesKg <= 0 {
		c.WeightShoesKg = 1.5
	}
	if c.WeightDefaultKg <= 0 {
		c.WeightDefaultKg = 0.6
	}
	if c.GroundRatePerKg <= 0 {
		c.GroundRatePerKg = 800
	}
	if c.AirRatePerKg <= 0 {
		c.AirRatePerKg = 1900
	}
}

// Quote is an itemized cost breakdown in RUB.
type Quote struct {
	Category Category
	Method   Method

	PriceCNY      float64
	EffectiveRate float64
	WeightKg      float64

	ItemCostRUB     float64
	DeliveryCostRUB float64
	CommissionRUB   float64

	// Rounded-up integer totals shown to the user.
	TotalItemCostRUB int
	DeliveryCeilRUB  int
	TotalCostRUB     int
}

// Engine computes quotes from a Config.
type Engine struct {
	cfg Config
}

// NewEngine returns an Engine with cfg normalized.
func NewEngine(cfg Config) *Engine {
	cfg.Normalize()
	return &Engine{cfg: cfg}
}

// Quote computes the full breakdown for one item.
// baseRate is the CNY/RUB exchange rate before markup.
func (e *Engine) Quote(category Category, priceCNY float64, method Method, baseRate float64) (Quote, error) {
	if priceCNY <= 0 {
		return Quote{}, fmt.Errorf("pricing: price must be positive, got %v", priceCNY)
	}
	if baseRate <= 0 {
		return Quote{}, fmt.Errorf("pricing: base rate must be positive, got %v", baseRate)
	}

	weight := e.cfg.WeightDefaultKg
	if category == CategoryShoes {
		weight = e.cfg.WeightShoesKg
	}

	var ratePerKg float64
	switch method {
	case MethodGround:
		ratePerKg = e.cfg.GroundRatePerKg
	case MethodAir:
		ratePerKg = e.cfg.AirRatePerKg
	default:
		return Quote{}, fmt.Errorf("pricing: unknown delivery method %q", method)
	}

	effectiveRate := baseRate * e.cfg.Markup
	itemCost := priceCNY * effectiveRate
	deliveryCost := weight * ratePerKg
	commission := itemCost * e.cfg.CommissionRate

	return Quote{
		Category:         category,
		Method:           method,
		PriceCNY:         priceCNY,
		EffectiveRate:    effectiveRate,
		WeightKg:         weight,
		ItemCostRUB:      itemCost,
		DeliveryCostRUB:  deliveryCost,
		CommissionRUB:    commission,
		TotalItemCostRUB: int(math.Ceil(itemCost + commission)),
		DeliveryCeilRUB:  int(math.Ceil(deliveryCost)),
		TotalCostRUB:     int(math.Ceil(itemCost + deliveryCost + commission)),
	}, nil
}

// ParseCategory maps the menu selection ("1", "2", "3") to a Category.
func ParseCategory(input string) (Category, bool) {
	switch strings.TrimSpace(input) {
	case "1":
		return CategoryShoes, true
	case "2":
		return CategoryApparel, true
	case "3":
		return CategoryOther, true
	}
	return "", false
}
