package mysql

import (
	"context"
	"fmt"

	"oil-backend/internal/storage"
)

// The ledger is saved whole: ending stock chains over every row, so a
// partial update would leave the fold stale.
func (s *Storage) GetLedger(ctx context.Context) ([]storage.LedgerRow, error) {
	const op = "storage.mysql.GetLedger"

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, plate, net_weight, doc_no, district,
		       processed, raw_stock, day_end, coefficient, output, sold, ending_stock, contract
		FROM oil_ledger
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ledger []storage.LedgerRow
	for rows.Next() {
		var r storage.LedgerRow
		err := rows.Scan(&r.Date, &r.Plate, &r.NetWeight, &r.DocNo, &r.District,
			&r.Processed, &r.RawStock, &r.DayEnd, &r.Coefficient, &r.Output, &r.Sold,
			&r.EndingStock, &r.Contract)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ledger = append(ledger, r)
	}

	return ledger, rows.Err()
}

func (s *Storage) SaveLedger(ctx context.Context, ledger []storage.LedgerRow) error {
	const op = "storage.mysql.SaveLedger"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_ledger`); err != nil {
		return fmt.Errorf("%s: clear ledger: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_ledger
		(date, plate, net_weight, doc_no, district,
		 processed, raw_stock, day_end, coefficient, output, sold, ending_stock, contract)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, r := range ledger {
		_, err := stmt.ExecContext(ctx, r.Date, r.Plate, r.NetWeight, r.DocNo, r.District,
			r.Processed, r.RawStock, r.DayEnd, r.Coefficient, r.Output, r.Sold,
			r.EndingStock, r.Contract)
		if err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, r.DocNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}

func (s *Storage) GetReceipts(ctx context.Context, month string) ([]storage.ReceiptRow, error) {
	const op = "storage.mysql.GetReceipts"

	rows, err := s.db.QueryContext(ctx, `
		SELECT pickup_date, name, plate, weight, driver, doc_no,
		       gross, tare, net, variance, unloaded
		FROM oil_receipts
		WHERE month = ?
		ORDER BY id`, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var receipts []storage.ReceiptRow
	for rows.Next() {
		var r storage.ReceiptRow
		err := rows.Scan(&r.PickupDate, &r.Name, &r.Plate, &r.Weight, &r.Driver, &r.DocNo,
			&r.Gross, &r.Tare, &r.Net, &r.Variance, &r.Unloaded)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		receipts = append(receipts, r)
	}

	return receipts, rows.Err()
}

func (s *Storage) SaveReceipts(ctx context.Context, month string, receipts []storage.ReceiptRow) error {
	const op = "storage.mysql.SaveReceipts"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM oil_receipts WHERE month = ?`, month); err != nil {
		return fmt.Errorf("%s: clear month %s: %w", op, month, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO oil_receipts
		(month, pickup_date, name, plate, weight, driver, doc_no,
		 gross, tare, net, variance, unloaded)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, r := range receipts {
		_, err := stmt.ExecContext(ctx, month, r.PickupDate, r.Name, r.Plate, r.Weight,
			r.Driver, r.DocNo, r.Gross, r.Tare, r.Net, r.Variance, r.Unloaded)
		if err != nil {
			return fmt.Errorf("%s: insert %s: %w", op, r.DocNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}
	return nil
}
