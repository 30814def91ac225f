package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/starmarket/internal/economy"
	"github.com/talgya/starmarket/internal/report"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func cycleReport(cycle uint64, price float64) *report.Report {
	return &report.Report{
		Tick:  cycle * 100,
		Cycle: cycle,
		Settlements: []report.SettlementReport{{
			Name:            "Terra",
			Population:      1000 + int(cycle),
			PopulationMoney: 5000,
			MarketMoney:     1e6,
			Happiness:       0.9,
			Famine:          cycle == 2,
			Goods: []report.GoodReport{{
				Good:     "Fruit",
				Price:    price,
				Quantity: 40,
				DataSet:  economy.DataSet{Production: 100, Consumption: 90},
			}},
		}},
	}
}

func TestRecordAndQuery(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	last, err := db.LastCycle(ctx)
	require.NoError(t, err)
	assert.Zero(t, last)

	require.NoError(t, db.Record(ctx, cycleReport(1, 1.0), []report.Event{{Tick: 90, Description: "founded", Category: "colony"}}))
	require.NoError(t, db.Record(ctx, cycleReport(2, 1.1), nil))
	require.NoError(t, db.Record(ctx, cycleReport(3, 1.21), nil))

	last, err = db.LastCycle(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), last)

	rows, err := db.SettlementHistory(ctx, "Terra", 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint64(3), rows[0].Cycle)
	assert.Equal(t, 1003, rows[0].Population)
	assert.True(t, rows[1].Famine)

	prices, err := db.PriceHistory(ctx, "Terra", "Fruit", 10)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.InDelta(t, 1.21, prices[0].Price, 1e-9)
	assert.Equal(t, 100, prices[2].Production)

	events, err := db.RecentEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "colony", events[0].Category)
}

func TestRecordReplacesCycle(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	require.NoError(t, db.Record(ctx, cycleReport(1, 1.0), nil))
	require.NoError(t, db.Record(ctx, cycleReport(1, 2.0), nil))

	prices, err := db.PriceHistory(ctx, "Terra", "Fruit", 10)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, 2.0, prices[0].Price)
}
