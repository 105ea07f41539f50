package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"time"
)

const orderColumns = `
	order_id,
	client_name,
	origin,
	destination,
	job_type,
	van_type,
	quantity,
	created_at,
	started_at,
	completed_at,
	completed
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(r rowScanner) (*domain.Order, error) {
	var (
		o                      domain.Order
		origin, dest, job, van int
		started, completedAt   sql.NullTime
	)
	err := r.Scan(
		&o.OrderID,
		&o.ClientName,
		&origin,
		&dest,
		&job,
		&van,
		&o.Quantity,
		&o.CreatedAt,
		&started,
		&completedAt,
		&o.Completed,
	)
	if err != nil {
		return nil, err
	}

	o.Origin = domain.City(origin)
	o.Destination = domain.City(dest)
	o.JobType = domain.JobType(job)
	o.VanType = domain.VanType(van)
	if started.Valid {
		t := started.Time.UTC()
		o.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		o.CompletedAt = &t
	}
	o.CreatedAt = o.CreatedAt.UTC()

	return &o, nil
}

func (s *SQLStore) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, s.DB, orderID)
}

func (s *SQLStore) getOrder(ctx context.Context, db queryer, orderID int64) (*domain.Order, error) {
	row := db.QueryRowContext(ctx, s.q(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?;`), orderID)

	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order %d: %w", orderID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return o, nil
}

func (s *SQLStore) ListOrders(ctx context.Context, status ports.OrderStatus) (_ []*domain.Order, err error) {
	defer obs.Time(ctx, "orders.ListOrders")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	switch status {
	case ports.OrdersActive:
		query += ` WHERE completed = ?`
		args = append(args, false)
	case ports.OrdersCompleted:
		query += ` WHERE completed = ?`
		args = append(args, true)
	}
	query += ` ORDER BY order_id;`

	rows, err := s.DB.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: query orders table: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Order, 0, 32)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: scan row: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: row iteration: %w", err)
	}

	return out, nil
}

// Insert or replace an order. A zero CreatedAt is stamped with the current time.
func (s *SQLStore) CreateOrder(ctx context.Context, o domain.Order) (err error) {
	defer obs.Time(ctx, "orders.CreateOrder")(&err)

	if err := s.check(); err != nil {
		return err
	}
	if o.OrderID <= 0 {
		return fmt.Errorf("create order: order id must be positive, got %d", o.OrderID)
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	_, err = s.DB.ExecContext(ctx, s.q(`
	INSERT INTO orders (`+orderColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT (order_id) DO UPDATE
	SET client_name = excluded.client_name,
		origin = excluded.origin,
		destination = excluded.destination,
		job_type = excluded.job_type,
		van_type = excluded.van_type,
		quantity = excluded.quantity,
		created_at = excluded.created_at,
		started_at = excluded.started_at,
		completed_at = excluded.completed_at,
		completed = excluded.completed;
	`),
		o.OrderID,
		o.ClientName,
		o.Origin.Index(),
		o.Destination.Index(),
		int(o.JobType),
		int(o.VanType),
		o.Quantity,
		o.CreatedAt.UTC(),
		nullTime(o.StartedAt),
		nullTime(o.CompletedAt),
		o.Completed,
	)
	if err != nil {
		return fmt.Errorf("create order %d: %w", o.OrderID, err)
	}

	return nil
}

// InsertOrder stores a new order under max(order_id)+1. A concurrent insert
// that picks the same id fails on the primary key rather than overwriting.
func (s *SQLStore) InsertOrder(ctx context.Context, o domain.Order) (_ int64, err error) {
	defer obs.Time(ctx, "orders.InsertOrder")(&err)

	if err := s.check(); err != nil {
		return 0, err
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	var id int64
	err = s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO orders (`+orderColumns+`)
	VALUES ((SELECT COALESCE(MAX(order_id), 0) + 1 FROM orders), ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING order_id;
	`),
		o.ClientName,
		o.Origin.Index(),
		o.Destination.Index(),
		int(o.JobType),
		int(o.VanType),
		o.Quantity,
		o.CreatedAt.UTC(),
		nullTime(o.StartedAt),
		nullTime(o.CompletedAt),
		o.Completed,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	return id, nil
}

func (s *SQLStore) UpdateOrderQuantity(ctx context.Context, orderID int64, quantity int) error {
	if err := s.check(); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, s.q(`UPDATE orders SET quantity = ? WHERE order_id = ?;`), quantity, orderID)
	if err != nil {
		return fmt.Errorf("update order quantity: %w", err)
	}
	return expectOne(res, "update order quantity")
}

func (s *SQLStore) MarkOrderCompleted(ctx context.Context, orderID int64, at time.Time) (err error) {
	defer obs.Time(ctx, "orders.MarkOrderCompleted")(&err)

	if err := s.check(); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE orders SET completed = ?, completed_at = ? WHERE order_id = ?;
	`), true, at.UTC(), orderID)
	if err != nil {
		return fmt.Errorf("mark order completed: %w", err)
	}
	return expectOne(res, "mark order completed")
}

func (s *SQLStore) SaveTrip(ctx context.Context, trip domain.Trip) (_ int64, err error) {
	defer obs.Time(ctx, "orders.SaveTrip")(&err)

	if err := s.check(); err != nil {
		return 0, err
	}
	return s.insertTrip(ctx, s.DB, trip)
}

func (s *SQLStore) insertTrip(ctx context.Context, db queryer, t domain.Trip) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx, s.q(`
	INSERT INTO trips (
		order_id,
		carrier_id,
		origin,
		destination,
		job_type,
		van_type,
		units,
		distance_km,
		travel_hours,
		cost
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING trip_id;
	`),
		t.OrderID,
		t.CarrierID,
		t.Origin.Index(),
		t.Destination.Index(),
		int(t.JobType),
		int(t.VanType),
		t.Units,
		t.DistanceKm,
		t.TravelHours,
		t.Cost,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert trip for order %d: %w", t.OrderID, err)
	}
	return id, nil
}

func (s *SQLStore) ListTrips(ctx context.Context, orderID int64) (_ []domain.Trip, err error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT
		trip_id,
		order_id,
		carrier_id,
		origin,
		destination,
		job_type,
		van_type,
		units,
		distance_km,
		travel_hours,
		cost
	FROM trips
	WHERE order_id = ?
	ORDER BY trip_id;
	`), orderID)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Trip, 0, 4)
	for rows.Next() {
		var (
			t                      domain.Trip
			origin, dest, job, van int
		)
		err := rows.Scan(
			&t.TripID,
			&t.OrderID,
			&t.CarrierID,
			&origin,
			&dest,
			&job,
			&van,
			&t.Units,
			&t.DistanceKm,
			&t.TravelHours,
			&t.Cost,
		)
		if err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}
		t.Origin = domain.City(origin)
		t.Destination = domain.City(dest)
		t.JobType = domain.JobType(job)
		t.VanType = domain.VanType(van)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return out, nil
}

// Consume capacity, insert the trip and update the order in one transaction.
func (s *SQLStore) CommitAllocation(ctx context.Context, c ports.AllocationCommit) (_ int64, err error) {
	defer obs.Time(ctx, "orders.CommitAllocation")(&err)

	if err := s.check(); err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("commit allocation: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	order, err := s.getOrder(ctx, tx, c.Trip.OrderID)
	if err != nil {
		return 0, fmt.Errorf("commit allocation: %w", err)
	}
	if order.Completed {
		return 0, fmt.Errorf("commit allocation: order %d: %w", order.OrderID, domain.ErrOrderCompleted)
	}

	if err := s.guardOrder(ctx, tx, c); err != nil {
		return 0, fmt.Errorf("commit allocation: %w", err)
	}

	if err := s.consume(ctx, tx, c.Trip.CarrierID, c.City, c.Trip.JobType, c.Trip.Units); err != nil {
		return 0, fmt.Errorf("commit allocation: %w", err)
	}

	tripID, err := s.insertTrip(ctx, tx, c.Trip)
	if err != nil {
		return 0, fmt.Errorf("commit allocation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.q(`
	UPDATE orders SET started_at = ? WHERE order_id = ? AND started_at IS NULL;
	`), c.StartedAt.UTC(), order.OrderID); err != nil {
		return 0, fmt.Errorf("commit allocation: stamp start: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit allocation: commit tx: %w", err)
	}

	return tripID, nil
}

// guardOrder fails with ErrStaleSession when the order moved on since the
// selection was planned. Both branches write the order row first so a
// concurrent commit for the same order waits on its row lock.
func (s *SQLStore) guardOrder(ctx context.Context, tx *sql.Tx, c ports.AllocationCommit) error {
	orderID := c.Trip.OrderID

	if c.RemainingQuantity != nil {
		res, err := tx.ExecContext(ctx, s.q(`
		UPDATE orders SET quantity = ? WHERE order_id = ? AND quantity = ?;
		`), *c.RemainingQuantity, orderID, c.ExpectedQuantity)
		if err != nil {
			return fmt.Errorf("update quantity: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update quantity: rows affected: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("order %d quantity is no longer %d: %w", orderID, c.ExpectedQuantity, domain.ErrStaleSession)
		}
		return nil
	}

	if _, err := tx.ExecContext(ctx, s.q(`UPDATE orders SET quantity = quantity WHERE order_id = ?;`), orderID); err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	var trips int
	if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM trips WHERE order_id = ?;`), orderID).Scan(&trips); err != nil {
		return fmt.Errorf("count trips: %w", err)
	}
	if trips > 0 {
		return fmt.Errorf("order %d already has a truckload assigned: %w", orderID, domain.ErrStaleSession)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
