package pipeline

import (
	"fmt"

	"oil-backend/internal/storage"
)

// SyncSerials copies serial numbers and delivery times from the settlement
// sheet back onto the collection sheet, joined by (plate, district).
// Unmatched visits keep empty propagated fields.
func SyncSerials(sheet []storage.CollectionRow, balance []storage.BalanceRow) []storage.CollectionRow {
	byKey := make(map[string]storage.BalanceRow, len(balance))
	for _, b := range balance {
		k := b.Plate + "|" + b.District
		if _, ok := byKey[k]; !ok {
			byKey[k] = b
		}
	}

	rows := make([]storage.CollectionRow, len(sheet))
	copy(rows, sheet)
	for i := range rows {
		b, ok := byKey[rows[i].Plate+"|"+rows[i].District]
		if !ok {
			continue
		}
		rows[i].Serial = b.Serial
		t := b.DeliveryDate
		rows[i].CollectedAt = &t
	}
	return rows
}

// SyncContracts propagates serial, delivery time and sales-contract number
// onto the collection sheet, joined by (plate, window total).
func SyncContracts(sheet []storage.CollectionRow, balance []storage.BalanceRow) []storage.CollectionRow {
	byKey := make(map[string]storage.BalanceRow, len(balance))
	for _, b := range balance {
		k := fmt.Sprintf("%s|%d", b.Plate, b.WindowTotal)
		if _, ok := byKey[k]; !ok {
			byKey[k] = b
		}
	}

	rows := make([]storage.CollectionRow, len(sheet))
	copy(rows, sheet)
	for i := range rows {
		b, ok := byKey[fmt.Sprintf("%s|%d", rows[i].Plate, rows[i].WindowTotal)]
		if !ok {
			continue
		}
		rows[i].Serial = b.Serial
		t := b.DeliveryDate
		rows[i].CollectedAt = &t
		rows[i].SalesContract = b.Contract
	}
	return rows
}
