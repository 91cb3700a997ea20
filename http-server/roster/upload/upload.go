package upload

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/service/export"
	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

const maxWorkbookSize = 10 << 20

type RestaurantSaver interface {
	SaveRestaurants(ctx context.Context, rows []storage.Restaurant) error
}

type Response struct {
	Status string `json:"status"`
	Rows   int    `json:"rows"`
}

// UploadRoster imports the restaurant roster from an uploaded xlsx
// workbook (multipart field "file") and replaces the stored one.
func UploadRoster(log *slog.Logger, saver RestaurantSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roster.upload.UploadRoster"

		if err := r.ParseMultipartForm(maxWorkbookSize); err != nil {
			http.Error(w, "bad multipart form", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file field", http.StatusBadRequest)
			return
		}
		defer file.Close()

		restaurants, err := export.ImportRestaurants(file, log)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to import roster")
			if errors.Is(err, pipeline.ErrMissingColumns) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			http.Error(w, "bad workbook", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := saver.SaveRestaurants(ctx, restaurants); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to save restaurants")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Status: "OK", Rows: len(restaurants)})
	}
}
