package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/storage"
)

type RosterSaver interface {
	SaveRestaurants(ctx context.Context, rows []storage.Restaurant) error
	SaveVehicles(ctx context.Context, rows []storage.Vehicle) error
}

type Request struct {
	Restaurants []storage.Restaurant `json:"restaurants"`
	Vehicles    []storage.Vehicle    `json:"vehicles"`
}

type Response struct {
	Status      string `json:"status"`
	Restaurants int    `json:"restaurants"`
	Vehicles    int    `json:"vehicles"`
}

// SaveRoster replaces the stored rosters. Either list may be omitted to
// leave the current one untouched.
func SaveRoster(log *slog.Logger, saver RosterSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roster.save.SaveRoster"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if req.Restaurants != nil {
			if err := saver.SaveRestaurants(ctx, req.Restaurants); err != nil {
				log.With(slog.String("op", op), slog.String("error", err.Error())).
					Error("failed to save restaurants")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		if req.Vehicles != nil {
			kept := make([]storage.Vehicle, 0, len(req.Vehicles))
			for _, v := range req.Vehicles {
				if v.Plate == "" || v.Driver == "" {
					log.Warn("skipping vehicle without plate or driver",
						slog.String("plate", v.Plate), slog.String("driver", v.Driver))
					continue
				}
				kept = append(kept, v)
			}
			req.Vehicles = kept
			if err := saver.SaveVehicles(ctx, req.Vehicles); err != nil {
				log.With(slog.String("op", op), slog.String("error", err.Error())).
					Error("failed to save vehicles")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		render.JSON(w, r, Response{
			Status:      "OK",
			Restaurants: len(req.Restaurants),
			Vehicles:    len(req.Vehicles),
		})
	}
}
