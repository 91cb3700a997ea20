package pipeline

import (
	"fmt"
	"time"

	"oil-backend/internal/storage"
)

// AllocateContract apportions the current period's output against the
// prior period's leftover coverage and stamps the period's contract code
// onto the ledger and both settlement sheets. Inputs are copied; the
// updated ledger, prior sheet and current sheet are returned.
func (s *Service) AllocateContract(
	ledger []storage.LedgerRow,
	receipts []storage.ReceiptRow,
	prior, current []storage.BalanceRow,
	coeff float64,
	now time.Time,
) ([]storage.LedgerRow, []storage.BalanceRow, []storage.BalanceRow, error) {
	const op = "service.pipeline.AllocateContract"

	if coeff <= 0 {
		return nil, nil, nil, fmt.Errorf("%s: %w: coefficient %v", op, ErrBadParam, coeff)
	}

	led := append([]storage.LedgerRow(nil), ledger...)
	pri := append([]storage.BalanceRow(nil), prior...)
	cur := append([]storage.BalanceRow(nil), current...)

	totalReceipts := 0.0
	for _, r := range receipts {
		totalReceipts += r.Weight
	}

	priorMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	priorEnd, ok := 0.0, false
	for _, r := range led {
		if sameMonth(r.Date, priorMonth) {
			priorEnd, ok = r.EndingStock, true
		}
	}
	if !ok {
		return nil, nil, nil, fmt.Errorf("%s: %w (before %s)", op, ErrNoPriorPeriod, now.Format("2006-01"))
	}

	monthQty := totalReceipts - priorEnd

	// Current-month rows carrying an output weight, deduplicated by
	// (date, output).
	type outRow struct {
		date time.Time
		out  float64
	}
	var qualifying []outRow
	seen := make(map[string]bool)
	for _, r := range led {
		if !sameMonth(r.Date, now) || !r.DayEnd {
			continue
		}
		key := fmt.Sprintf("%s|%v", r.Date.Format(dayKey), r.Output)
		if seen[key] {
			continue
		}
		seen[key] = true
		qualifying = append(qualifying, outRow{date: r.Date, out: r.Output})
	}
	if len(qualifying) == 0 {
		return nil, nil, nil, fmt.Errorf("%s: %w (%s)", op, ErrNoQualifyingRows, now.Format("2006-01"))
	}

	// Accumulate until the running sum first exceeds monthQty: stopDate is
	// the exceeding row's date, sumQty the sum before it. If nothing
	// exceeds, the last qualifying row wins.
	cum := 0.0
	stopDate := qualifying[len(qualifying)-1].date
	sumQty := 0.0
	for _, q := range qualifying {
		cum += q.out
		if cum > monthQty {
			stopDate = q.date
			sumQty = cum - q.out
			break
		}
		sumQty = cum
	}

	remaining := (monthQty - sumQty) / coeff

	// Second pass from stopDate (inclusive): the row where the output
	// accumulation first exceeds the remaining material bounds the
	// allocation. Never exceeding it means the whole tail is covered.
	stopIndex := -1
	cum = 0.0
	for i, r := range led {
		if r.Date.Before(stopDate) {
			continue
		}
		cum += r.Output
		stopIndex = i
		if cum > remaining {
			break
		}
	}

	code := contractCode(now)

	for i := range led {
		if led[i].Contract != "" {
			continue
		}
		if sameMonth(led[i].Date, priorMonth) {
			led[i].Contract = code
		}
		if sameMonth(led[i].Date, now) && i <= stopIndex {
			led[i].Contract = code
		}
	}

	for i := range pri {
		if pri[i].Contract == "" {
			pri[i].Contract = code
		}
	}

	// Current sheet joins the ledger by (date, document number); unmatched
	// or still-empty rows fall back to the period code.
	byDoc := make(map[string]string, len(led))
	for _, r := range led {
		byDoc[r.Date.Format(dayKey)+"|"+r.DocNo] = r.Contract
	}
	for i := range cur {
		c := byDoc[cur[i].DeliveryDate.Format(dayKey)+"|"+cur[i].DocNo]
		if c == "" {
			c = code
		}
		cur[i].Contract = c
	}

	return led, pri, cur, nil
}

// contractCode formats the period code, e.g. 2024-05 -> BWD-JC240501.
func contractCode(now time.Time) string {
	return "BWD-JC" + now.Format("0601") + "01"
}
