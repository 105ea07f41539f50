package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures what differs between the Postgres and SQLite schemas.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	serial := "BIGSERIAL PRIMARY KEY"
	money := "NUMERIC(12, 4)"
	float := "DOUBLE PRECISION"
	ts := "TIMESTAMPTZ"
	boolean := "BOOLEAN"
	if d == SQLite {
		serial = "INTEGER PRIMARY KEY AUTOINCREMENT"
		money = "TEXT"
		float = "REAL"
		ts = "TIMESTAMP"
		boolean = "INTEGER"
	}

	return []string{
		`
	CREATE TABLE IF NOT EXISTS routes (
		city INTEGER PRIMARY KEY,
		city_name TEXT NOT NULL,
		distance_km INTEGER NOT NULL CHECK (distance_km >= 0),
		travel_hours ` + float + ` NOT NULL CHECK (travel_hours >= 0)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS carriers (
		carrier_id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		ftl_rate ` + money + ` NOT NULL,
		ltl_rate ` + money + ` NOT NULL,
		reefer_charge ` + money + ` NOT NULL,
		active ` + boolean + ` NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS carrier_cities (
		carrier_id BIGINT NOT NULL REFERENCES carriers(carrier_id),
		city INTEGER NOT NULL,
		ftl_available INTEGER NOT NULL CHECK (ftl_available >= 0),
		ltl_available INTEGER NOT NULL CHECK (ltl_available >= 0),
		PRIMARY KEY (carrier_id, city)
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS orders (
		order_id BIGINT PRIMARY KEY,
		client_name TEXT NOT NULL,
		origin INTEGER NOT NULL,
		destination INTEGER NOT NULL,
		job_type INTEGER NOT NULL,
		van_type INTEGER NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 0),
		created_at ` + ts + ` NOT NULL,
		started_at ` + ts + `,
		completed_at ` + ts + `,
		completed ` + boolean + ` NOT NULL
	);
	`,
		`
	CREATE TABLE IF NOT EXISTS trips (
		trip_id ` + serial + `,
		order_id BIGINT NOT NULL REFERENCES orders(order_id),
		carrier_id BIGINT NOT NULL REFERENCES carriers(carrier_id),
		origin INTEGER NOT NULL,
		destination INTEGER NOT NULL,
		job_type INTEGER NOT NULL,
		van_type INTEGER NOT NULL,
		units INTEGER NOT NULL CHECK (units > 0),
		distance_km INTEGER NOT NULL,
		travel_hours ` + float + ` NOT NULL,
		cost ` + money + ` NOT NULL
	);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_carrier_cities_city
	ON carrier_cities(city, carrier_id);
	`,
		`
	CREATE INDEX IF NOT EXISTS idx_trips_order
	ON trips(order_id, trip_id);
	`,
	}
}

// InitSchema creates the fulfillment tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range d.schema() {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): exec statement #%d: %w", d, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
