// Package history keeps a SQLite log of economy cycles for later analysis:
// per-settlement welfare, per-good prices and flows, and notable events.
// It is a developer report log; simulation state is never restored from it.
package history

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/starmarket/internal/report"
)

// DB wraps a SQLite connection for the cycle log.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS cycles (
		cycle INTEGER PRIMARY KEY,
		tick INTEGER NOT NULL,
		sim_seconds REAL NOT NULL,
		population INTEGER NOT NULL,
		settlements INTEGER NOT NULL,
		routes INTEGER NOT NULL,
		ships INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settlement_stats (
		cycle INTEGER NOT NULL,
		settlement TEXT NOT NULL,
		population INTEGER NOT NULL,
		population_money REAL NOT NULL,
		market_money REAL NOT NULL,
		happiness REAL NOT NULL,
		unemployment REAL NOT NULL,
		famine INTEGER NOT NULL,
		PRIMARY KEY (cycle, settlement)
	);

	CREATE TABLE IF NOT EXISTS good_stats (
		cycle INTEGER NOT NULL,
		settlement TEXT NOT NULL,
		good TEXT NOT NULL,
		price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		production INTEGER NOT NULL,
		consumption INTEGER NOT NULL,
		import INTEGER NOT NULL,
		export INTEGER NOT NULL,
		PRIMARY KEY (cycle, settlement, good)
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	CREATE INDEX IF NOT EXISTS idx_settlement_stats_name ON settlement_stats(settlement);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// Record writes one cycle report and the events raised since the previous one.
// Recording a cycle twice replaces the earlier rows.
func (db *DB) Record(ctx context.Context, r *report.Report, events []report.Event) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO cycles
		(cycle, tick, sim_seconds, population, settlements, routes, ships)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Cycle, r.Tick, r.SimSeconds, r.TotalPopulation(), len(r.Settlements), len(r.Routes), len(r.Ships),
	)
	if err != nil {
		return fmt.Errorf("insert cycle %d: %w", r.Cycle, err)
	}

	for _, s := range r.Settlements {
		_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO settlement_stats
			(cycle, settlement, population, population_money, market_money, happiness, unemployment, famine)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Cycle, s.Name, s.Population, s.PopulationMoney, s.MarketMoney, s.Happiness, s.Unemployment, s.Famine,
		)
		if err != nil {
			return fmt.Errorf("insert settlement %s: %w", s.Name, err)
		}
		for _, g := range s.Goods {
			_, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO good_stats
				(cycle, settlement, good, price, quantity, production, consumption, import, export)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				r.Cycle, s.Name, g.Good, g.Price, g.Quantity, g.Production, g.Consumption, g.Import, g.Export,
			)
			if err != nil {
				return fmt.Errorf("insert good %s/%s: %w", s.Name, g.Good, err)
			}
		}
	}

	for _, e := range events {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
			e.Tick, e.Description, e.Category,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Debug("cycle recorded", "cycle", r.Cycle, "settlements", len(r.Settlements), "events", len(events))
	return nil
}

// SettlementRow is one cycle of a settlement's welfare.
type SettlementRow struct {
	Cycle           uint64  `json:"cycle" db:"cycle"`
	Settlement      string  `json:"settlement" db:"settlement"`
	Population      int     `json:"population" db:"population"`
	PopulationMoney float64 `json:"population_money" db:"population_money"`
	MarketMoney     float64 `json:"market_money" db:"market_money"`
	Happiness       float64 `json:"happiness" db:"happiness"`
	Unemployment    float64 `json:"unemployment" db:"unemployment"`
	Famine          bool    `json:"famine" db:"famine"`
}

// GoodRow is one cycle of a good in one settlement.
type GoodRow struct {
	Cycle       uint64  `json:"cycle" db:"cycle"`
	Settlement  string  `json:"settlement" db:"settlement"`
	Good        string  `json:"good" db:"good"`
	Price       float64 `json:"price" db:"price"`
	Quantity    int     `json:"quantity" db:"quantity"`
	Production  int     `json:"production" db:"production"`
	Consumption int     `json:"consumption" db:"consumption"`
	Import      int     `json:"import" db:"import"`
	Export      int     `json:"export" db:"export"`
}

// SettlementHistory returns the last limit cycles of a settlement, newest first.
func (db *DB) SettlementHistory(ctx context.Context, settlement string, limit int) ([]SettlementRow, error) {
	var rows []SettlementRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT cycle, settlement, population, population_money, market_money, happiness, unemployment, famine
		FROM settlement_stats WHERE settlement = ? ORDER BY cycle DESC LIMIT ?`,
		settlement, limit,
	)
	return rows, err
}

// PriceHistory returns the last limit cycles of a good at a settlement, newest first.
func (db *DB) PriceHistory(ctx context.Context, settlement, good string, limit int) ([]GoodRow, error) {
	var rows []GoodRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT cycle, settlement, good, price, quantity, production, consumption, import, export
		FROM good_stats WHERE settlement = ? AND good = ? ORDER BY cycle DESC LIMIT ?`,
		settlement, good, limit,
	)
	return rows, err
}

// RecentEvents returns the most recent N events.
func (db *DB) RecentEvents(ctx context.Context, limit int) ([]report.Event, error) {
	var events []report.Event
	err := db.conn.SelectContext(ctx, &events,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return events, err
}

// LastCycle returns the highest recorded cycle, or 0 for an empty log.
func (db *DB) LastCycle(ctx context.Context) (uint64, error) {
	var c uint64
	err := db.conn.GetContext(ctx, &c, "SELECT COALESCE(MAX(cycle), 0) FROM cycles")
	return c, err
}
