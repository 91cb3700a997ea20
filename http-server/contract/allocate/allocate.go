package allocate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/service/pipeline"
)

type ContractAllocator interface {
	AllocateContracts(ctx context.Context, coeff float64, now time.Time) error
}

type Response struct {
	Status string `json:"status"`
}

// AllocateContracts stamps sales contract numbers across the ledger and
// both settlement sheets for the period ending at the given date.
func AllocateContracts(log *slog.Logger, alloc ContractAllocator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.contract.allocate.AllocateContracts"

		var req struct {
			Date        string  `json:"date"`
			Coefficient float64 `json:"coefficient"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad JSON", http.StatusBadRequest)
			return
		}
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		if err := alloc.AllocateContracts(ctx, req.Coefficient, date); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to allocate contracts")
			switch {
			case errors.Is(err, pipeline.ErrBadParam):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, pipeline.ErrNoPriorPeriod),
				errors.Is(err, pipeline.ErrNoQualifyingRows):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Status: "OK"})
	}
}
