package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraderBuyConservation(t *testing.T) {
	tests := []struct {
		name        string
		sellerStock int
		buyerMoney  float64
		buyerCap    int
		want        int
		price       float64
		request     int
	}{
		{"limited by request", 100, 1000, 0, 10, 2, 10},
		{"limited by money", 100, 15, 0, 7, 2, 50},
		{"limited by stock", 4, 1000, 0, 4, 2, 50},
		{"limited by storage", 100, 1000, 3, 3, 2, 50},
		{"nothing affordable", 100, 1, 0, 0, 2, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seller := NewTrader(500, 0, EntityTrader)
			seller.AddToStorage("fruit", tt.sellerStock)
			buyer := NewTrader(tt.buyerMoney, tt.buyerCap, EntityTrader)

			k := seller.Buy("fruit", tt.request, tt.price, buyer)
			require.Equal(t, tt.want, k)

			assert.InDelta(t, float64(k)*tt.price, tt.buyerMoney-buyer.Money(), 1e-9)
			assert.InDelta(t, 500+float64(k)*tt.price, seller.Money(), 1e-9)
			assert.Equal(t, tt.sellerStock-k, seller.Items("fruit"))
			assert.Equal(t, k, buyer.Items("fruit"))
		})
	}
}

func TestTraderSellIsBuyWithRolesSwapped(t *testing.T) {
	market := NewTrader(100, 0, EntityTrader)
	seller := NewTrader(0, 0, EntityPopulation)
	seller.AddToStorage("ore", 30)

	k := market.Sell("ore", 40, 2, seller)
	assert.Equal(t, 30, k)
	assert.Equal(t, 30, market.Items("ore"))
	assert.InDelta(t, 40, market.Money(), 1e-9)
	assert.InDelta(t, 60, seller.Money(), 1e-9)
}

func TestTraderUnconstrainedSeller(t *testing.T) {
	seller := NewTrader(Unconstrained, 0, EntityTrader)
	seller.AddToStorage("fruit", 10)
	buyer := NewTrader(10, 0, EntityPopulation)

	require.True(t, seller.Unconstrained())
	assert.Equal(t, math.MaxFloat64, seller.Money())

	k := seller.Buy("fruit", 5, 1, buyer)
	assert.Equal(t, 5, k)
	assert.InDelta(t, 5, buyer.Money(), 1e-9)
	assert.True(t, seller.Unconstrained())
}

func TestTraderPartialBuyStaysConsistent(t *testing.T) {
	seller := NewTrader(0, 0, EntityTrader)
	seller.AddToStorage("fruit", 8)
	buyer := NewTrader(9.5, 5, EntityTrader)
	buyer.AddToStorage("ore", 2)

	k := seller.Buy("fruit", 20, 1.5, buyer)
	// money allows 6, stock 8, storage 3
	require.Equal(t, 3, k)
	assert.InDelta(t, 9.5-4.5, buyer.Money(), 1e-9)
	assert.InDelta(t, 4.5, seller.Money(), 1e-9)
	assert.Equal(t, 5, seller.Items("fruit"))
	assert.Equal(t, 0, buyer.StorageLeft())
}

func TestTraderRejectsBadInput(t *testing.T) {
	seller := NewTrader(0, 0, EntityTrader)
	seller.AddToStorage("fruit", 8)
	buyer := NewTrader(100, 0, EntityTrader)

	assert.Equal(t, 0, seller.Buy("fruit", 0, 1, buyer))
	assert.Equal(t, 0, seller.Buy("fruit", 5, -1, buyer))
	assert.Equal(t, 0, seller.Buy("fruit", 5, 1, seller))
	assert.Equal(t, 8, seller.Items("fruit"))
	assert.InDelta(t, 100, buyer.Money(), 1e-9)
}
