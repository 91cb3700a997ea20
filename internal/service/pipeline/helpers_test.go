package pipeline

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oil-backend/internal/config"
	"oil-backend/internal/storage"
)

func testConfig(seed int64) config.Pipeline {
	return config.Pipeline{
		AmountRules: []config.AmountRule{
			{Types: "hotpot/barbecue", Amounts: "4,5"},
			{Types: "canteen", Amounts: "2,3"},
		},
		WindowMin:        35,
		WindowMax:        44,
		NetWeightFactor:  0.18,
		TargetWeight:     3000,
		Tolerance:        0.05,
		WeightRetryLimit: 1000,
		MonthlyTrips:     92,
		CoeffMin:         900,
		CoeffMax:         930,
		Seed:             seed,
	}
}

func newService(t *testing.T, cfg config.Pipeline) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(cfg, log)
	require.NoError(t, err)
	return s
}

func newRestaurant(name, district, street, rtype string) storage.Restaurant {
	return storage.Restaurant{
		ChineseName:    name,
		EnglishName:    name,
		ChineseAddress: "addr " + name,
		ContactPerson:  "contact",
		Phone:          "555-0100",
		Street:         street,
		District:       district,
		Type:           rtype,
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
