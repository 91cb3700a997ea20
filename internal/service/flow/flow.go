package flow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

// Storage is everything the pipeline run needs to read and persist.
// Months are keyed "2006-01".
type Storage interface {
	GetRestaurants(ctx context.Context) ([]storage.Restaurant, error)
	GetVehicles(ctx context.Context) ([]storage.Vehicle, error)

	SaveCollectionSheet(ctx context.Context, rows []storage.CollectionRow) error
	GetCollectionSheet(ctx context.Context) ([]storage.CollectionRow, error)

	SaveBalanceSheet(ctx context.Context, month string, rows []storage.BalanceRow) error
	GetBalanceSheet(ctx context.Context, month string) ([]storage.BalanceRow, error)

	GetLedger(ctx context.Context) ([]storage.LedgerRow, error)
	SaveLedger(ctx context.Context, rows []storage.LedgerRow) error

	SaveReceipts(ctx context.Context, month string, rows []storage.ReceiptRow) error
	GetReceipts(ctx context.Context, month string) ([]storage.ReceiptRow, error)
}

// Service drives the derivation stages in order, one sheet at a time,
// reading and persisting through Storage.
type Service struct {
	storage Storage
	engine  *pipeline.Service
	log     *slog.Logger
}

func New(storage Storage, engine *pipeline.Service, log *slog.Logger) *Service {
	return &Service{storage: storage, engine: engine, log: log}
}

func monthKey(m time.Time) string { return m.Format("2006-01") }

// GenerateCollection builds and persists the collection assignment sheet.
func (s *Service) GenerateCollection(ctx context.Context) ([]storage.CollectionRow, error) {
	const op = "service.flow.GenerateCollection"

	var (
		restaurants []storage.Restaurant
		vehicles    []storage.Vehicle
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		restaurants, err = s.storage.GetRestaurants(gCtx)
		if err != nil {
			return fmt.Errorf("restaurants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.storage.GetVehicles(gCtx)
		if err != nil {
			return fmt.Errorf("vehicles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.engine.BuildCollectionSheet(restaurants, vehicles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveCollectionSheet(ctx, rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("collection sheet generated", slog.Int("rows", len(rows)))
	return rows, nil
}

// GenerateBalance collapses the stored collection sheet into the month's
// settlement sheet spread over the given day count.
func (s *Service) GenerateBalance(ctx context.Context, days int, month time.Time) ([]storage.BalanceRow, error) {
	const op = "service.flow.GenerateBalance"

	sheet, err := s.storage.GetCollectionSheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.engine.BuildBalanceSheet(sheet, days, month)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveBalanceSheet(ctx, monthKey(month), rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// AppendLedger folds the month's settlement sheet into the master ledger.
func (s *Service) AppendLedger(ctx context.Context, month time.Time) ([]storage.LedgerRow, error) {
	const op = "service.flow.AppendLedger"

	var (
		balance  []storage.BalanceRow
		existing []storage.LedgerRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.storage.GetBalanceSheet(gCtx, monthKey(month))
		if err != nil {
			return fmt.Errorf("balance sheet: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		existing, err = s.storage.GetLedger(gCtx)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := s.engine.AccumulateLedger(balance, existing)
	if err := s.storage.SaveLedger(ctx, rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

// GenerateReceipts derives the month's weighbridge tickets and writes the
// daily sale totals back into the ledger.
func (s *Service) GenerateReceipts(ctx context.Context, month time.Time) ([]storage.ReceiptRow, error) {
	const op = "service.flow.GenerateReceipts"

	var (
		balance  []storage.BalanceRow
		vehicles []storage.Vehicle
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		balance, err = s.storage.GetBalanceSheet(gCtx, monthKey(month))
		if err != nil {
			return fmt.Errorf("balance sheet: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		vehicles, err = s.storage.GetVehicles(gCtx)
		if err != nil {
			return fmt.Errorf("vehicles: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	receipts, err := s.engine.BuildReceipts(balance, vehicles)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.SaveReceipts(ctx, monthKey(month), receipts); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ledger, err := s.storage.GetLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(ledger) > 0 {
		updated := s.engine.ApplySales(ledger, receipts)
		if err := s.storage.SaveLedger(ctx, updated); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return receipts, nil
}

// AllocateContracts resolves the period's contract coverage and persists
// the stamped ledger plus both settlement sheets.
func (s *Service) AllocateContracts(ctx context.Context, coeff float64, now time.Time) error {
	const op = "service.flow.AllocateContracts"

	priorMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	var (
		ledger   []storage.LedgerRow
		receipts []storage.ReceiptRow
		prior    []storage.BalanceRow
		current  []storage.BalanceRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ledger, err = s.storage.GetLedger(gCtx)
		if err != nil {
			return fmt.Errorf("ledger: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		receipts, err = s.storage.GetReceipts(gCtx, monthKey(now))
		if err != nil {
			return fmt.Errorf("receipts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prior, err = s.storage.GetBalanceSheet(gCtx, monthKey(priorMonth))
		if err != nil {
			return fmt.Errorf("prior balance sheet: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		current, err = s.storage.GetBalanceSheet(gCtx, monthKey(now))
		if err != nil {
			return fmt.Errorf("current balance sheet: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	led, pri, cur, err := s.engine.AllocateContract(ledger, receipts, prior, current, coeff, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SaveLedger(ctx, led); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.SaveBalanceSheet(ctx, monthKey(priorMonth), pri); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.storage.SaveBalanceSheet(ctx, monthKey(now), cur); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SyncCollection propagates serials, collection times and sales contracts
// from the month's settlement sheet back onto the collection sheet.
func (s *Service) SyncCollection(ctx context.Context, month time.Time) ([]storage.CollectionRow, error) {
	const op = "service.flow.SyncCollection"

	var (
		sheet   []storage.CollectionRow
		balance []storage.BalanceRow
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sheet, err = s.storage.GetCollectionSheet(gCtx)
		if err != nil {
			return fmt.Errorf("collection sheet: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		balance, err = s.storage.GetBalanceSheet(gCtx, monthKey(month))
		if err != nil {
			return fmt.Errorf("balance sheet: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows := pipeline.SyncSerials(sheet, balance)
	rows = pipeline.SyncContracts(rows, balance)

	if err := s.storage.SaveCollectionSheet(ctx, rows); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}
