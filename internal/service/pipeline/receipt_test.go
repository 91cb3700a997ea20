package pipeline

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oil-backend/internal/storage"
)

func receiptFixture(t *testing.T, seed int64) ([]storage.ReceiptRow, []storage.BalanceRow, []storage.Vehicle) {
	t.Helper()
	s := newService(t, testConfig(seed))

	// 92 deliveries across four days: the average draw (~32.2) puts the
	// batch sum near the 3000 target.
	var balance []storage.BalanceRow
	for i := 0; i < 92; i++ {
		balance = append(balance, storage.BalanceRow{
			District:     "North",
			Plate:        "AB123",
			NetWeight:    7,
			DocNo:        fmt.Sprintf("B202405%03d", i+1),
			DeliveryDate: day(2024, time.May, 2+i/23),
		})
	}
	vehicles := []storage.Vehicle{
		{Plate: "AB123", Driver: "Li", TareKG: 8000},
		{Plate: "CD456", Driver: "Wang", TareKG: 8200},
	}

	rows, err := s.BuildReceipts(balance, vehicles)
	require.NoError(t, err)
	require.Len(t, rows, 92)
	return rows, balance, vehicles
}

func TestBuildReceipts_SumWithinTolerance(t *testing.T) {
	rows, _, _ := receiptFixture(t, 1)

	sum := 0.0
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.Weight, 30.50)
		assert.LessOrEqual(t, r.Weight, 34.95)
		sum += r.Weight
	}
	assert.GreaterOrEqual(t, sum, 2850.0)
	assert.LessOrEqual(t, sum, 3150.0)
}

func TestBuildReceipts_DerivedWeights(t *testing.T) {
	rows, balance, vehicles := receiptFixture(t, 2)

	tares := map[string]float64{}
	drivers := map[string]string{}
	for _, v := range vehicles {
		tares[v.Plate] = v.TareKG
		drivers[v.Plate] = v.Driver
	}

	for i, r := range rows {
		assert.Equal(t, balance[i].DocNo, r.DocNo)
		assert.InDelta(t, r.Weight*1000, r.Net, 1e-9)
		assert.InDelta(t, r.Tare+r.Net, r.Gross, 1e-9)

		base, ok := tares[r.Plate]
		require.True(t, ok, "unknown plate %s", r.Plate)
		assert.Equal(t, drivers[r.Plate], r.Driver)
		assert.GreaterOrEqual(t, r.Tare, base+10)
		assert.LessOrEqual(t, r.Tare, base+130)

		assert.GreaterOrEqual(t, r.Variance, -0.15)
		assert.LessOrEqual(t, r.Variance, 0.12)
		assert.InDelta(t, round2(r.Weight+r.Variance), r.Unloaded, 1e-9)
	}
}

func TestBuildReceipts_PickupDatesStartAfterDeliveries(t *testing.T) {
	rows, balance, _ := receiptFixture(t, 3)

	earliest := balance[0].DeliveryDate
	for _, b := range balance {
		if b.DeliveryDate.Before(earliest) {
			earliest = b.DeliveryDate
		}
	}

	for i, r := range rows {
		assert.True(t, r.PickupDate.After(earliest), "pickup must start the day after deliveries")
		if i > 0 {
			assert.False(t, r.PickupDate.Before(rows[i-1].PickupDate))
		}
	}
}

func TestBuildReceipts_ToleranceExhaustion(t *testing.T) {
	cfg := testConfig(4)
	cfg.TargetWeight = 100000 // unreachable for a two-row batch
	cfg.WeightRetryLimit = 10
	s := newService(t, cfg)

	balance := []storage.BalanceRow{
		{DocNo: "B1", DeliveryDate: day(2024, time.May, 2)},
		{DocNo: "B2", DeliveryDate: day(2024, time.May, 3)},
	}
	_, err := s.BuildReceipts(balance, []storage.Vehicle{{Plate: "AB123"}})
	assert.ErrorIs(t, err, ErrWeightTolerance)
}

func TestBuildReceipts_EmptyInputs(t *testing.T) {
	s := newService(t, testConfig(5))

	_, err := s.BuildReceipts(nil, []storage.Vehicle{{Plate: "AB123"}})
	assert.ErrorIs(t, err, ErrBadParam)

	_, err = s.BuildReceipts([]storage.BalanceRow{{DocNo: "B1"}}, nil)
	assert.ErrorIs(t, err, ErrBadParam)
}

func TestVarianceDraw_StepTable(t *testing.T) {
	s := newService(t, testConfig(6))

	for i := 0; i < 1000; i++ {
		v := s.varianceDraw()
		assert.GreaterOrEqual(t, v, -0.15)
		assert.LessOrEqual(t, v, 0.12)
	}
}
