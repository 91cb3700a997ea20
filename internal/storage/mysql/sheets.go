package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"oil-backend/internal/storage"
)

func (s *Storage) GetCollectionSheet(ctx context.Context) ([]storage.CollectionRow, error) {
	const op = "storage.mysql.GetCollectionSheet"

	rows, err := s.db.QueryContext(ctx, `
		SELECT chinese_name, english_name, chinese_address, english_address,
		       coordinates, contact_person, phone, distance_km, street, district, type,
		       barrels, plate, window_total, serial, collected_at, sales_contract
		FROM oil_collection_sheet
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sheet []storage.CollectionRow
	for rows.Next() {
		var c storage.CollectionRow
		var collectedAt sql.NullTime
		err := rows.Scan(&c.ChineseName, &c.EnglishName, &c.ChineseAddress, &c.EnglishAddress,
			&c.Coordinates, &c.ContactPerson, &c.Phone, &c.DistanceKM, &c.Street, &c.District, &c.Type,
			&c.Barrels, &c.Plate, &c.WindowTotal, &c.Serial, &collectedAt, &c.SalesContract)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if collectedAt.Valid {
			t := collectedAt.Time
			c.CollectedAt = &t
		}
		sheet = append(sheet, c)
	}

	return sheet, rows.Err()
}

func (s *Storage) SaveCollectionSheet(ctx context.Context, sheet []storage.CollectionRow) error {
	const op = "storage.mysql.SaveCollectionSheet"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_collection_sheet`); err != nil {
		return fmt.Errorf("%s: clear sheet: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_collection_sheet
		(chinese_name, english_name, chinese_address, english_address,
		 coordinates, contact_person, phone, distance_km, street, district, type,
		 barrels, plate, window_total, serial, collected_at, sales_contract)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, c := range sheet {
		var collectedAt interface{}
		if c.CollectedAt != nil {
			collectedAt = *c.CollectedAt
		}
		_, err := stmt.ExecContext(ctx, c.ChineseName, c.EnglishName, c.ChineseAddress,
			c.EnglishAddress, c.Coordinates, c.ContactPerson, c.Phone, c.DistanceKM,
			c.Street, c.District, c.Type,
			c.Barrels, c.Plate, c.WindowTotal, c.Serial, collectedAt, c.SalesContract)
		if err != nil {
			return fmt.Errorf("%s: insert %q: %w", op, c.ChineseName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}

func (s *Storage) GetBalanceSheet(ctx context.Context, month string) ([]storage.BalanceRow, error) {
	const op = "storage.mysql.GetBalanceSheet"

	rows, err := s.db.QueryContext(ctx, `
		SELECT district, plate, window_total, net_weight, cargo_type, transport,
		       serial, doc_no, delivery_date, contract
		FROM oil_balance_sheet
		WHERE month = ?
		ORDER BY id`, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sheet []storage.BalanceRow
	for rows.Next() {
		var b storage.BalanceRow
		err := rows.Scan(&b.District, &b.Plate, &b.WindowTotal, &b.NetWeight,
			&b.CargoType, &b.Transport, &b.Serial, &b.DocNo, &b.DeliveryDate, &b.Contract)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		sheet = append(sheet, b)
	}

	return sheet, rows.Err()
}

func (s *Storage) SaveBalanceSheet(ctx context.Context, month string, sheet []storage.BalanceRow) error {
	const op = "storage.mysql.SaveBalanceSheet"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_balance_sheet WHERE month = ?`, month); err != nil {
		return fmt.Errorf("%s: clear month %s: %w", op, month, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_balance_sheet
		(month, district, plate, window_total, net_weight, cargo_type, transport,
		 serial, doc_no, delivery_date, contract)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, b := range sheet {
		_, err := stmt.ExecContext(ctx, month, b.District, b.Plate, b.WindowTotal,
			b.NetWeight, b.CargoType, b.Transport, b.Serial, b.DocNo, b.DeliveryDate, b.Contract)
		if err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, b.DocNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}
