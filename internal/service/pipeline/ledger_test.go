package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oil-backend/internal/storage"
)

func balanceRow(d time.Time, plate string, net float64, doc string) storage.BalanceRow {
	return storage.BalanceRow{
		District:     "North",
		Plate:        plate,
		NetWeight:    net,
		DocNo:        doc,
		DeliveryDate: d,
	}
}

func TestAccumulateLedger_TwoDateScenario(t *testing.T) {
	s := newService(t, testConfig(1))

	d1 := day(2025, time.February, 23)
	d2 := day(2025, time.February, 24)
	balance := []storage.BalanceRow{
		balanceRow(d1, "AB123", 10, "B202502001"),
		balanceRow(d1, "CD456", 20, "B202502002"),
		balanceRow(d2, "EF789", 15, "B202502003"),
		balanceRow(d2, "GH101", 25, "B202502004"),
	}

	rows := s.AccumulateLedger(balance, nil)
	require.Len(t, rows, 4)

	// Processed volume sits on each date's last row only.
	assert.Equal(t, []float64{0, 30, 0, 40},
		[]float64{rows[0].Processed, rows[1].Processed, rows[2].Processed, rows[3].Processed})
	assert.Equal(t, []bool{false, true, false, true},
		[]bool{rows[0].DayEnd, rows[1].DayEnd, rows[2].DayEnd, rows[3].DayEnd})

	// Raw stock chains within a date: 10, 20+10-30=0, 15, 25+15-40=0.
	assert.Equal(t, []float64{10, 0, 15, 0},
		[]float64{rows[0].RawStock, rows[1].RawStock, rows[2].RawStock, rows[3].RawStock})

	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Coefficient, 900)
		assert.LessOrEqual(t, r.Coefficient, 930)
		if r.DayEnd {
			assert.Equal(t, round2(r.Processed*float64(r.Coefficient)/100), r.Output)
		} else {
			assert.Zero(t, r.Output)
		}
		assert.Zero(t, r.Sold)
	}
}

func TestAccumulateLedger_EndingStockIsRunningFold(t *testing.T) {
	s := newService(t, testConfig(2))

	balance := []storage.BalanceRow{
		balanceRow(day(2025, time.March, 1), "AB123", 12, "B1"),
		balanceRow(day(2025, time.March, 1), "CD456", 8, "B2"),
		balanceRow(day(2025, time.March, 2), "AB123", 9, "B3"),
	}

	rows := s.AccumulateLedger(balance, nil)

	prev := 0.0
	for i, r := range rows {
		assert.InDelta(t, r.Output+prev-r.Sold, r.EndingStock, 1e-9, "row %d", i)
		prev = r.EndingStock
	}
}

func TestAccumulateLedger_AppendsAndRefolds(t *testing.T) {
	s := newService(t, testConfig(3))

	existing := s.AccumulateLedger([]storage.BalanceRow{
		balanceRow(day(2025, time.February, 10), "AB123", 30, "B0"),
	}, nil)

	combined := s.AccumulateLedger([]storage.BalanceRow{
		balanceRow(day(2025, time.March, 3), "CD456", 40, "B1"),
	}, existing)

	require.Len(t, combined, 2)
	assert.Equal(t, "B0", combined[0].DocNo)
	assert.Equal(t, "B1", combined[1].DocNo)

	// The chain restarts from zero over the whole ledger.
	assert.InDelta(t, combined[0].Output, combined[0].EndingStock, 1e-9)
	assert.InDelta(t, combined[1].Output+combined[0].EndingStock, combined[1].EndingStock, 1e-9)
}

func TestApplySales_WritesDayTotalsOnLastRow(t *testing.T) {
	s := newService(t, testConfig(4))

	d1 := day(2025, time.March, 1)
	d2 := day(2025, time.March, 2)
	ledger := s.AccumulateLedger([]storage.BalanceRow{
		balanceRow(d1, "AB123", 10, "B1"),
		balanceRow(d1, "CD456", 20, "B2"),
		balanceRow(d2, "EF789", 15, "B3"),
	}, nil)

	receipts := []storage.ReceiptRow{
		{PickupDate: d1, Weight: 31.5},
		{PickupDate: d1, Weight: 33.0},
		{PickupDate: day(2025, time.March, 9), Weight: 30.0}, // not in ledger, ignored
	}

	updated := s.ApplySales(ledger, receipts)

	assert.Zero(t, updated[0].Sold)
	assert.InDelta(t, 64.5, updated[1].Sold, 1e-9)
	assert.Zero(t, updated[2].Sold)

	// Input slice stays untouched.
	assert.Zero(t, ledger[1].Sold)

	prev := 0.0
	for _, r := range updated {
		assert.InDelta(t, r.Output+prev-r.Sold, r.EndingStock, 1e-9)
		prev = r.EndingStock
	}
}
