package mysql

import (
	"context"
	"fmt"

	"oil-backend/internal/storage"
)

func (s *Storage) GetRestaurants(ctx context.Context) ([]storage.Restaurant, error) {
	const op = "storage.mysql.GetRestaurants"

	rows, err := s.db.QueryContext(ctx, `
		SELECT chinese_name, english_name, chinese_address, english_address,
		       coordinates, contact_person, phone, distance_km, street, district, type
		FROM oil_restaurants
		ORDER BY district, street, chinese_name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var restaurants []storage.Restaurant
	for rows.Next() {
		var r storage.Restaurant
		err := rows.Scan(&r.ChineseName, &r.EnglishName, &r.ChineseAddress, &r.EnglishAddress,
			&r.Coordinates, &r.ContactPerson, &r.Phone, &r.DistanceKM, &r.Street, &r.District, &r.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		restaurants = append(restaurants, r)
	}

	return restaurants, rows.Err()
}

func (s *Storage) SaveRestaurants(ctx context.Context, restaurants []storage.Restaurant) error {
	const op = "storage.mysql.SaveRestaurants"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_restaurants`); err != nil {
		return fmt.Errorf("%s: clear roster: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_restaurants
		(chinese_name, english_name, chinese_address, english_address,
		 coordinates, contact_person, phone, distance_km, street, district, type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, r := range restaurants {
		_, err := stmt.ExecContext(ctx, r.ChineseName, r.EnglishName, r.ChineseAddress,
			r.EnglishAddress, r.Coordinates, r.ContactPerson, r.Phone, r.DistanceKM,
			r.Street, r.District, r.Type)
		if err != nil {
			return fmt.Errorf("%s: insert %q: %w", op, r.ChineseName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}

func (s *Storage) GetVehicles(ctx context.Context) ([]storage.Vehicle, error) {
	const op = "storage.mysql.GetVehicles"

	rows, err := s.db.QueryContext(ctx, `
		SELECT plate, driver, vtype, district, max_barrels, tare_kg
		FROM oil_vehicles
		ORDER BY plate`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var vehicles []storage.Vehicle
	for rows.Next() {
		var v storage.Vehicle
		err := rows.Scan(&v.Plate, &v.Driver, &v.VType, &v.District, &v.MaxBarrels, &v.TareKG)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

func (s *Storage) SaveVehicles(ctx context.Context, vehicles []storage.Vehicle) error {
	const op = "storage.mysql.SaveVehicles"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_vehicles`); err != nil {
		return fmt.Errorf("%s: clear fleet: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_vehicles (plate, driver, vtype, district, max_barrels, tare_kg)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		_, err := stmt.ExecContext(ctx, v.Plate, v.Driver, v.VType, v.District, v.MaxBarrels, v.TareKG)
		if err != nil {
			return fmt.Errorf("%s: insert %q: %w", op, v.Plate, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}
