package generate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

type CollectionGenerator interface {
	GenerateCollection(ctx context.Context) ([]storage.CollectionRow, error)
}

func GenerateCollectionSheet(log *slog.Logger, gen CollectionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.collection.generate.GenerateCollectionSheet"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		rows, err := gen.GenerateCollection(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to generate collection sheet")
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
