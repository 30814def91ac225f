// Package social models what lives on a settled body: the population that
// eats and works, the producers that turn inputs into goods, and the
// settlement that runs them against its market once per cycle.
package social

import (
	"github.com/talgya/starmarket/internal/catalog"
	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/entropy"
)

// Rules are the tunable constants of settlement economics.
type Rules struct {
	LabourPerCitizen float64 `yaml:"labour_per_citizen"`
	MaxPopulation    int     `yaml:"max_population"`
	GrowthRate       float64 `yaml:"growth_rate"` // Per cycle, both growth and famine loss

	// Below this population a settlement is dormant: no consumption or work.
	MinActivePopulation int `yaml:"min_active_population"`

	ColonizePopulation int     `yaml:"colonize_population"`
	ColonizeMoney      float64 `yaml:"colonize_money"`

	// Population savings move into a cash-poor market.
	LiquidityThreshold float64 `yaml:"liquidity_threshold"`
	LiquidityTransfer  float64 `yaml:"liquidity_transfer"`

	ProducerCapital float64 `yaml:"producer_capital"` // Funding per producer level
	LevelBonus      float64 `yaml:"level_bonus"`      // Extra output per level above 1

	HappinessWeight float64 `yaml:"happiness_weight"` // Weight of the newest cycle

	MaxLevel               int     `yaml:"max_level"`
	MarketMoneyPerLevel    float64 `yaml:"market_money_per_level"`
	MoneyPerPersonPerLevel float64 `yaml:"money_per_person_per_level"`
	BasePopulation         int     `yaml:"base_population"`
}

// DefaultRules returns the standard settlement constants.
func DefaultRules() Rules {
	return Rules{
		LabourPerCitizen:       0.1,
		MaxPopulation:          1_000_000,
		GrowthRate:             0.001,
		MinActivePopulation:    20,
		ColonizePopulation:     400,
		ColonizeMoney:          10_000,
		LiquidityThreshold:     10_000,
		LiquidityTransfer:      5_000,
		ProducerCapital:        1_000,
		LevelBonus:             0.01,
		HappinessWeight:        0.2,
		MaxLevel:               8,
		MarketMoneyPerLevel:    1_000_000,
		MoneyPerPersonPerLevel: 1_000,
		BasePopulation:         200,
	}
}

// Deps is everything a settlement needs from outside. Passing it
// explicitly keeps settlements isolated and reproducible.
type Deps struct {
	Catalog *catalog.Catalog
	Rules   Rules
	Prices  economy.PriceRules
	Rand    entropy.Source
}
