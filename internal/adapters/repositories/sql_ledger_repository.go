package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"freight-fulfillment-service/internal/domain"
	"freight-fulfillment-service/internal/platform/obs"
	"freight-fulfillment-service/internal/ports"
	"strings"
)

func availableColumn(job domain.JobType) string {
	if job == domain.FTL {
		return "ftl_available"
	}
	return "ltl_available"
}

// Return ledger entries joined with their carrier, ordered by carrier then city.
func (s *SQLStore) ListCarrierCities(
	ctx context.Context,
	filter ports.CarrierCityFilter,
) (_ []domain.CarrierCity, err error) {
	defer obs.Time(ctx, "ledger.ListCarrierCities")(&err)

	if err := s.check(); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.City != nil {
		where = append(where, "cc.city = ?")
		args = append(args, filter.City.Index())
	}
	if filter.JobType != nil {
		where = append(where, "c.active = ?", "cc."+availableColumn(*filter.JobType)+" > 0")
		args = append(args, true)
	}

	query := `
	SELECT
		c.carrier_id,
		c.name,
		c.ftl_rate,
		c.ltl_rate,
		c.reefer_charge,
		c.active,
		cc.city,
		cc.ftl_available,
		cc.ltl_available
	FROM carrier_cities cc
	JOIN carriers c ON c.carrier_id = cc.carrier_id
	`
	if len(where) > 0 {
		query += "WHERE " + strings.Join(where, " AND ") + "\n"
	}
	query += "ORDER BY c.carrier_id, cc.city;"

	rows, err := s.DB.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list carrier cities: query: %w", err)
	}
	defer rows.Close()

	out := make([]domain.CarrierCity, 0, 16)
	for rows.Next() {
		var (
			cc   domain.CarrierCity
			city int
		)
		err := rows.Scan(
			&cc.Carrier.CarrierID,
			&cc.Carrier.Name,
			&cc.Carrier.FTLRate,
			&cc.Carrier.LTLRate,
			&cc.Carrier.ReeferCharge,
			&cc.Carrier.Active,
			&city,
			&cc.FTLAvailable,
			&cc.LTLAvailable,
		)
		if err != nil {
			return nil, fmt.Errorf("list carrier cities: scan row: %w", err)
		}
		cc.City = domain.City(city)
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list carrier cities: row iteration: %w", err)
	}

	return out, nil
}

// Compare-and-decrement: the WHERE clause rejects the update when capacity is short.
func (s *SQLStore) Consume(ctx context.Context, carrierID int64, city domain.City, job domain.JobType, units int) (err error) {
	defer obs.Time(ctx, "ledger.Consume")(&err)

	if err := s.check(); err != nil {
		return err
	}
	return s.consume(ctx, s.DB, carrierID, city, job, units)
}

func (s *SQLStore) consume(ctx context.Context, db queryer, carrierID int64, city domain.City, job domain.JobType, units int) error {
	col := availableColumn(job)

	res, err := db.ExecContext(ctx, s.q(`
	UPDATE carrier_cities
	SET `+col+` = `+col+` - ?
	WHERE carrier_id = ? AND city = ? AND `+col+` >= ?;
	`), units, carrierID, city.Index(), units)
	if err != nil {
		return fmt.Errorf("consume: update carrier_cities: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume: rows affected: %w", err)
	}
	if n == 1 {
		return nil
	}

	var avail int
	err = db.QueryRowContext(ctx, s.q(`
	SELECT `+col+` FROM carrier_cities WHERE carrier_id = ? AND city = ?;
	`), carrierID, city.Index()).Scan(&avail)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("consume: carrier %d at %s: %w", carrierID, city, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("consume: read availability: %w", err)
	}

	return fmt.Errorf("consume: carrier %d at %s has %d %s, need %d: %w", carrierID, city, avail, job, units, domain.ErrInsufficientCapacity)
}

func (s *SQLStore) UpsertCarrierCity(ctx context.Context, cc domain.CarrierCity) (err error) {
	defer obs.Time(ctx, "ledger.UpsertCarrierCity")(&err)

	if err := s.check(); err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, s.q(`
	INSERT INTO carrier_cities (carrier_id, city, ftl_available, ltl_available)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (carrier_id, city) DO UPDATE
	SET ftl_available = excluded.ftl_available,
		ltl_available = excluded.ltl_available;
	`), cc.Carrier.CarrierID, cc.City.Index(), cc.FTLAvailable, cc.LTLAvailable)
	if err != nil {
		return fmt.Errorf("upsert carrier city: carrier %d at %s: %w", cc.Carrier.CarrierID, cc.City, err)
	}

	return nil
}

func (s *SQLStore) RemoveCarrierCity(ctx context.Context, carrierID int64, city domain.City) (err error) {
	defer obs.Time(ctx, "ledger.RemoveCarrierCity")(&err)

	if err := s.check(); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, s.q(`
	DELETE FROM carrier_cities WHERE carrier_id = ? AND city = ?;
	`), carrierID, city.Index())
	if err != nil {
		return fmt.Errorf("remove carrier city: %w", err)
	}

	return expectOne(res, "remove carrier city")
}

func (s *SQLStore) UpsertCarrier(ctx context.Context, c domain.Carrier) (err error) {
	defer obs.Time(ctx, "ledger.UpsertCarrier")(&err)

	if err := s.check(); err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, s.q(`
	INSERT INTO carriers (carrier_id, name, ftl_rate, ltl_rate, reefer_charge, active)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (carrier_id) DO UPDATE
	SET name = excluded.name,
		ftl_rate = excluded.ftl_rate,
		ltl_rate = excluded.ltl_rate,
		reefer_charge = excluded.reefer_charge,
		active = excluded.active;
	`), c.CarrierID, c.Name, c.FTLRate, c.LTLRate, c.ReeferCharge, c.Active)
	if err != nil {
		return fmt.Errorf("upsert carrier %d: %w", c.CarrierID, err)
	}

	return nil
}

func (s *SQLStore) GetCarrier(ctx context.Context, carrierID int64) (*domain.Carrier, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	var c domain.Carrier
	err := s.DB.QueryRowContext(ctx, s.q(`
	SELECT carrier_id, name, ftl_rate, ltl_rate, reefer_charge, active
	FROM carriers
	WHERE carrier_id = ?;
	`), carrierID).Scan(&c.CarrierID, &c.Name, &c.FTLRate, &c.LTLRate, &c.ReeferCharge, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get carrier %d: %w", carrierID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get carrier %d: %w", carrierID, err)
	}

	return &c, nil
}

func (s *SQLStore) SetCarrierActive(ctx context.Context, carrierID int64, active bool) (err error) {
	defer obs.Time(ctx, "ledger.SetCarrierActive")(&err)

	if err := s.check(); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE carriers SET active = ? WHERE carrier_id = ?;
	`), active, carrierID)
	if err != nil {
		return fmt.Errorf("set carrier active: %w", err)
	}

	return expectOne(res, "set carrier active")
}

// expectOne maps "no row touched" to domain.ErrNotFound.
func expectOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
