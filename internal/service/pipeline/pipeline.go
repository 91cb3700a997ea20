package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"oil-backend/internal/config"
)

var (
	ErrMissingColumns  = errors.New("required columns missing")
	ErrBadParam        = errors.New("bad parameter")
	ErrWeightTolerance = errors.New("receipt weights could not be generated within tolerance")
	ErrNoPriorPeriod   = errors.New("ledger has no prior-month rows")
	ErrNoQualifyingRows = errors.New("no qualifying ledger rows for the period")
)

// Service runs the sheet-derivation stages. It carries its own rand source
// so a run can be replayed with the same seed.
type Service struct {
	cfg config.Pipeline
	log *slog.Logger
	rnd *rand.Rand
}

func New(cfg config.Pipeline, log *slog.Logger) (*Service, error) {
	const op = "service.pipeline.New"

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Service{
		cfg: cfg,
		log: log,
		rnd: rand.New(rand.NewSource(seed)),
	}, nil
}

// randIntIncl draws uniformly from [lo, hi].
func (s *Service) randIntIncl(lo, hi int) int {
	return lo + s.rnd.Intn(hi-lo+1)
}

// randStep draws -1, 0 or 1.
func (s *Service) randStep() int {
	return s.rnd.Intn(3) - 1
}

// round2 rounds half away from zero to two decimals, matching the
// spreadsheets these sheets are checked against (math.Round on the raw
// float drifts on binary noise).
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
