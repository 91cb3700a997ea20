package pipeline

import (
	"fmt"
	"time"

	"oil-backend/internal/storage"
)

const (
	cargoType     = "kitchen waste oil"
	transportMode = "heavy truck"
)

// BuildBalanceSheet collapses each closed window of the collection sheet
// into one settlement row and spreads deliveries over `days` days of the
// given calendar month. Delivery dates come out non-decreasing in row
// order.
func (s *Service) BuildBalanceSheet(sheet []storage.CollectionRow, days int, month time.Time) ([]storage.BalanceRow, error) {
	const op = "service.pipeline.BuildBalanceSheet"

	if days <= 0 {
		return nil, fmt.Errorf("%s: %w: day count %d", op, ErrBadParam, days)
	}

	// One row per distinct (district, plate, window total).
	seen := make(map[string]bool)
	var rows []storage.BalanceRow
	for _, c := range sheet {
		if !c.Assigned() {
			continue
		}
		key := fmt.Sprintf("%s|%s|%d", c.District, c.Plate, c.WindowTotal)
		if seen[key] {
			continue
		}
		seen[key] = true

		net := round2(float64(c.WindowTotal)*s.cfg.NetWeightFactor - float64(s.randIntIncl(1, 5))/100)
		rows = append(rows, storage.BalanceRow{
			District:    c.District,
			Plate:       c.Plate,
			WindowTotal: c.WindowTotal,
			NetWeight:   net,
			CargoType:   cargoType,
			Transport:   transportMode,
		})
	}

	ym := month.Format("200601")
	for i := range rows {
		rows[i].Serial = fmt.Sprintf("%s%03d", ym, i+1)
		rows[i].DocNo = "B" + rows[i].Serial
	}

	for i, d := range s.deliveryDates(len(sheet), len(rows), days, month) {
		rows[i].DeliveryDate = d
	}

	return rows, nil
}

// deliveryDates walks the days of the month, each day consuming
// perDay±{-1,0,1} rows (at least one), and backfills any shortfall with
// the last produced date. perDay divides the raw sheet size, not the
// deduplicated one — that is how the paperwork has always been scheduled.
func (s *Service) deliveryDates(sheetLen, n, days int, month time.Time) []time.Time {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	perDay := sheetLen / days

	dates := make([]time.Time, 0, n)
	for day := 0; day < daysInMonth && len(dates) < n; day++ {
		take := perDay + s.randStep()
		if take <= 0 {
			take = 1
		}
		if rest := n - len(dates); take > rest {
			take = rest
		}
		d := first.AddDate(0, 0, day)
		for k := 0; k < take; k++ {
			dates = append(dates, d)
		}
	}

	if len(dates) < n {
		last := first.AddDate(0, 1, -1)
		if len(dates) > 0 {
			last = dates[len(dates)-1]
		}
		for len(dates) < n {
			dates = append(dates, last)
		}
	}

	return dates
}
