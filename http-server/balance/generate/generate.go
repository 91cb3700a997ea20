package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

type BalanceGenerator interface {
	GenerateBalance(ctx context.Context, days int, month time.Time) ([]storage.BalanceRow, error)
}

// GenerateBalanceSheet builds the month's settlement sheet from the stored
// collection sheet, spread over the requested day count.
func GenerateBalanceSheet(log *slog.Logger, gen BalanceGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.balance.generate.GenerateBalanceSheet"

		var req struct {
			Days  int    `json:"days"`
			Month string `json:"month"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad JSON", http.StatusBadRequest)
			return
		}
		month, err := time.Parse("2006-01", req.Month)
		if err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		rows, err := gen.GenerateBalance(ctx, req.Days, month)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to generate balance sheet")
			if errors.Is(err, pipeline.ErrBadParam) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, rows)
	}
}
