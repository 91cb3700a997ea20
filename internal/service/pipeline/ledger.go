package pipeline

import (
	"time"

	"oil-backend/internal/storage"
)

const dayKey = "2006-01-02"

// AccumulateLedger folds settlement rows into the master ledger and
// returns the appended ledger. Processed volume lands on each date's last
// row; raw stock chains within a date; ending stock is refolded over the
// whole combined ledger.
func (s *Service) AccumulateLedger(balance []storage.BalanceRow, existing []storage.LedgerRow) []storage.LedgerRow {
	rows := make([]storage.LedgerRow, len(balance))
	for i, b := range balance {
		rows[i] = storage.LedgerRow{
			Date:        b.DeliveryDate,
			Plate:       b.Plate,
			NetWeight:   b.NetWeight,
			DocNo:       b.DocNo,
			District:    b.District,
			Coefficient: s.randIntIncl(s.cfg.CoeffMin, s.cfg.CoeffMax),
		}
	}

	// Group row indexes by date, in order of first appearance.
	var dates []string
	byDate := make(map[string][]int)
	for i, r := range rows {
		k := r.Date.Format(dayKey)
		if _, ok := byDate[k]; !ok {
			dates = append(dates, k)
		}
		byDate[k] = append(byDate[k], i)
	}

	for _, k := range dates {
		idxs := byDate[k]
		total := 0.0
		for _, i := range idxs {
			total += rows[i].NetWeight
		}
		last := idxs[len(idxs)-1]
		rows[last].Processed = total
		rows[last].DayEnd = true

		prev := 0.0
		for _, i := range idxs {
			rows[i].RawStock = rows[i].NetWeight + prev - rows[i].Processed
			prev = rows[i].RawStock
		}
	}

	for i := range rows {
		rows[i].Output = round2(rows[i].Processed * float64(rows[i].Coefficient) / 100)
	}

	combined := make([]storage.LedgerRow, 0, len(existing)+len(rows))
	combined = append(combined, existing...)
	combined = append(combined, rows...)
	foldEnding(combined)

	return combined
}

// ApplySales writes each pickup date's receipt total into the sold column
// of the ledger's last row for that date, then refolds ending stock.
// Receipt dates with no ledger rows are ignored. Callers that skip this
// step keep the default sold quantity of zero.
func (s *Service) ApplySales(ledger []storage.LedgerRow, receipts []storage.ReceiptRow) []storage.LedgerRow {
	rows := make([]storage.LedgerRow, len(ledger))
	copy(rows, ledger)

	daily := make(map[string]float64)
	for _, r := range receipts {
		daily[r.PickupDate.Format(dayKey)] += r.Weight
	}

	lastOf := make(map[string]int)
	for i, r := range rows {
		lastOf[r.Date.Format(dayKey)] = i
	}

	for k, total := range daily {
		if i, ok := lastOf[k]; ok {
			rows[i].Sold = total
		}
	}

	foldEnding(rows)
	return rows
}

// foldEnding recomputes the ending-stock chain over the whole ledger:
// ending[i] = output[i] + ending[i-1] - sold[i], starting from zero.
func foldEnding(rows []storage.LedgerRow) {
	prev := 0.0
	for i := range rows {
		rows[i].EndingStock = rows[i].Output + prev - rows[i].Sold
		prev = rows[i].EndingStock
	}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
