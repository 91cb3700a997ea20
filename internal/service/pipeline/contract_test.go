package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oil-backend/internal/storage"
)

func ledgerRow(d time.Time, doc string, output float64, ending float64, dayEnd bool) storage.LedgerRow {
	return storage.LedgerRow{
		Date:        d,
		Plate:       "AB123",
		DocNo:       doc,
		District:    "North",
		Output:      output,
		EndingStock: ending,
		DayEnd:      dayEnd,
	}
}

func contractFixture() ([]storage.LedgerRow, []storage.ReceiptRow) {
	ledger := []storage.LedgerRow{
		ledgerRow(day(2024, time.April, 29), "B202404001", 80, 80, true),
		ledgerRow(day(2024, time.April, 30), "B202404002", 20, 100, true),
		ledgerRow(day(2024, time.May, 2), "B202405001", 30, 130, true),
		ledgerRow(day(2024, time.May, 3), "B202405002", 30, 160, true),
		ledgerRow(day(2024, time.May, 4), "B202405003", 25, 185, true),
	}
	// Receipts sum to 150; prior-month ending stock is 100, so the month
	// covers 50 of output.
	receipts := []storage.ReceiptRow{
		{PickupDate: day(2024, time.May, 3), Weight: 70},
		{PickupDate: day(2024, time.May, 4), Weight: 80},
	}
	return ledger, receipts
}

func TestAllocateContract_StampsLedgerAndSheets(t *testing.T) {
	s := newService(t, testConfig(1))
	ledger, receipts := contractFixture()

	prior := []storage.BalanceRow{
		{DocNo: "B202404001", DeliveryDate: day(2024, time.April, 29)},
		{DocNo: "B202404002", DeliveryDate: day(2024, time.April, 30), Contract: "BWD-JC240401"},
	}
	current := []storage.BalanceRow{
		{DocNo: "B202405001", DeliveryDate: day(2024, time.May, 2)},
		{DocNo: "B202405099", DeliveryDate: day(2024, time.May, 9)}, // no ledger match
	}

	led, pri, cur, err := s.AllocateContract(ledger, receipts, prior, current, 1.0, day(2024, time.May, 6))
	require.NoError(t, err)

	const code = "BWD-JC240501"

	// month_quantity = 150-100 = 50; cumulative output 30,60 -> stop on
	// May 3 with sum_quantity 30; remaining = 20; second scan from May 3:
	// 30 > 20 immediately, so the allocation ends at the May 3 row.
	assert.Equal(t, code, led[0].Contract)
	assert.Equal(t, code, led[1].Contract)
	assert.Equal(t, code, led[2].Contract)
	assert.Equal(t, code, led[3].Contract)
	assert.Empty(t, led[4].Contract, "rows past the stop index keep no code")

	// Prior sheet: only empty cells are filled.
	assert.Equal(t, code, pri[0].Contract)
	assert.Equal(t, "BWD-JC240401", pri[1].Contract)

	// Current sheet joins the ledger by (date, doc) and falls back to the
	// period code when unmatched.
	assert.Equal(t, code, cur[0].Contract)
	assert.Equal(t, code, cur[1].Contract)

	// Inputs stay untouched.
	assert.Empty(t, ledger[0].Contract)
	assert.Empty(t, prior[0].Contract)
	assert.Empty(t, current[0].Contract)
}

func TestAllocateContract_CodeFormat(t *testing.T) {
	assert.Equal(t, "BWD-JC240501", contractCode(day(2024, time.May, 6)))
	assert.Equal(t, "BWD-JC251201", contractCode(day(2025, time.December, 31)))
}

func TestAllocateContract_NoPriorPeriod(t *testing.T) {
	s := newService(t, testConfig(2))

	ledger := []storage.LedgerRow{
		ledgerRow(day(2024, time.May, 2), "B1", 30, 30, true),
	}
	_, _, _, err := s.AllocateContract(ledger, nil, nil, nil, 1.0, day(2024, time.May, 6))
	assert.ErrorIs(t, err, ErrNoPriorPeriod)
}

func TestAllocateContract_NoQualifyingRows(t *testing.T) {
	s := newService(t, testConfig(3))

	// Prior month exists but the current month has no day-end rows.
	ledger := []storage.LedgerRow{
		ledgerRow(day(2024, time.April, 30), "B1", 20, 20, true),
		ledgerRow(day(2024, time.May, 2), "B2", 0, 20, false),
	}
	_, _, _, err := s.AllocateContract(ledger, nil, nil, nil, 1.0, day(2024, time.May, 6))
	assert.ErrorIs(t, err, ErrNoQualifyingRows)
}

func TestAllocateContract_BadCoefficient(t *testing.T) {
	s := newService(t, testConfig(4))
	_, _, _, err := s.AllocateContract(nil, nil, nil, nil, 0, day(2024, time.May, 6))
	assert.ErrorIs(t, err, ErrBadParam)
}
