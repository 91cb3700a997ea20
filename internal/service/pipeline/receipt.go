package pipeline

import (
	"fmt"
	"time"

	"oil-backend/internal/storage"
)

// Recorded weight per ticket, hundredths of a tonne.
const (
	rowWeightLo = 3050
	rowWeightHi = 3495
)

// Calibrated weighbridge variance: a draw in [1,1001] maps through the
// breakpoints to signed hundredths, step-function style (largest
// breakpoint <= draw wins).
var (
	varianceBreaks = []int{0, 3, 6, 10, 15, 30, 60, 90, 150, 200, 300, 350,
		480, 550, 700, 800, 850, 900, 940, 970, 990, 995, 1001}
	varianceSteps = []float64{-15, -14, -13, -12, -11, -7, -6, -5, -4, -3,
		-2, -1, 0, 1, 2, 3, 4, 5, 6, 7, 11, 12}
)

// BuildReceipts generates one weighbridge ticket per settlement row. The
// recorded weights are redrawn as a whole batch until their sum lands
// within the configured tolerance of the target, up to WeightRetryLimit
// attempts.
func (s *Service) BuildReceipts(balance []storage.BalanceRow, vehicles []storage.Vehicle) ([]storage.ReceiptRow, error) {
	const op = "service.pipeline.BuildReceipts"

	if len(balance) == 0 {
		return nil, fmt.Errorf("%s: %w: balance sheet is empty", op, ErrBadParam)
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("%s: %w: vehicle roster is empty", op, ErrBadParam)
	}

	n := len(balance)

	weights, err := s.drawWeights(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	dates := s.pickupDates(balance, n)

	fleet := make([]storage.Vehicle, len(vehicles))
	for i, p := range s.rnd.Perm(len(vehicles)) {
		fleet[i] = vehicles[p]
	}

	rows := make([]storage.ReceiptRow, n)
	for i := range rows {
		v := fleet[i%len(fleet)]
		tare := v.TareKG + float64(s.randIntIncl(1, 13)*10)
		net := weights[i] * 1000
		variance := s.varianceDraw()

		rows[i] = storage.ReceiptRow{
			PickupDate: dates[i],
			Name:       cargoType,
			Plate:      v.Plate,
			Weight:     weights[i],
			Driver:     v.Driver,
			DocNo:      balance[i].DocNo,
			Tare:       tare,
			Net:        net,
			Gross:      tare + net,
			Variance:   variance,
			Unloaded:   round2(weights[i] + variance),
		}
	}

	return rows, nil
}

// drawWeights redraws the whole batch until the sum is within
// tolerance of the target.
func (s *Service) drawWeights(n int) ([]float64, error) {
	lo := (1 - s.cfg.Tolerance) * s.cfg.TargetWeight
	hi := (1 + s.cfg.Tolerance) * s.cfg.TargetWeight

	weights := make([]float64, n)
	for attempt := 0; attempt < s.cfg.WeightRetryLimit; attempt++ {
		sum := 0.0
		for i := range weights {
			weights[i] = float64(s.randIntIncl(rowWeightLo, rowWeightHi)) / 100
			sum += weights[i]
		}
		if sum >= lo && sum <= hi {
			return weights, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrWeightTolerance, s.cfg.WeightRetryLimit)
}

// pickupDates starts the day after the earliest delivery date and cycles
// perDay±{-1,0,1} tickets per day over as many days as the balance sheet
// spans, padding with successive days or truncating to fit.
func (s *Service) pickupDates(balance []storage.BalanceRow, n int) []time.Time {
	distinct := make(map[string]bool)
	minDate := balance[0].DeliveryDate
	for _, b := range balance {
		distinct[b.DeliveryDate.Format(dayKey)] = true
		if b.DeliveryDate.Before(minDate) {
			minDate = b.DeliveryDate
		}
	}
	days := len(distinct)
	perDay := s.cfg.MonthlyTrips / days

	start := minDate.AddDate(0, 0, 1)
	var dates []time.Time
	for day := 0; day < days; day++ {
		take := perDay + s.randStep()
		d := start.AddDate(0, 0, day)
		for k := 0; k < take; k++ {
			dates = append(dates, d)
		}
	}

	for len(dates) < n {
		last := start
		if len(dates) > 0 {
			last = dates[len(dates)-1]
		}
		dates = append(dates, last.AddDate(0, 0, 1))
	}

	return dates[:n]
}

func (s *Service) varianceDraw() float64 {
	draw := s.randIntIncl(1, 1001)
	step := 0
	for i, b := range varianceBreaks {
		if b > draw {
			break
		}
		step = i
	}
	if step >= len(varianceSteps) {
		step = len(varianceSteps) - 1
	}
	return varianceSteps[step] / 100
}
