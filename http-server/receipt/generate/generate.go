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

type ReceiptGenerator interface {
	GenerateReceipts(ctx context.Context, month time.Time) ([]storage.ReceiptRow, error)
}

// GenerateReceiptSheet derives the month's weighbridge confirmation sheet.
func GenerateReceiptSheet(log *slog.Logger, gen ReceiptGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.receipt.generate.GenerateReceiptSheet"

		var req struct {
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

		rows, err := gen.GenerateReceipts(ctx, month)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to generate receipts")
			switch {
			case errors.Is(err, pipeline.ErrBadParam):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, pipeline.ErrWeightTolerance):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, rows)
	}
}
