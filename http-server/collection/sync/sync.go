package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/storage"
)

type CollectionSyncer interface {
	SyncCollection(ctx context.Context, month time.Time) ([]storage.CollectionRow, error)
}

// SyncCollectionSheet copies serials, collection times and sales contracts
// from the month's settlement sheet back onto the collection sheet.
func SyncCollectionSheet(log *slog.Logger, syncer CollectionSyncer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.collection.sync.SyncCollectionSheet"

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

		rows, err := syncer.SyncCollection(ctx, month)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to sync collection sheet")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, rows)
	}
}
