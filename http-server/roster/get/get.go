package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"oil-backend/internal/storage"
)

type RosterProvider interface {
	GetRestaurants(ctx context.Context) ([]storage.Restaurant, error)
	GetVehicles(ctx context.Context) ([]storage.Vehicle, error)
}

type Response struct {
	Restaurants []storage.Restaurant `json:"restaurants"`
	Vehicles    []storage.Vehicle    `json:"vehicles"`
}

// GetRoster returns the stored restaurant and fleet rosters.
func GetRoster(log *slog.Logger, provider RosterProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roster.get.GetRoster"

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		restaurants, err := provider.GetRestaurants(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to load restaurants")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		vehicles, err := provider.GetVehicles(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to load vehicles")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Restaurants: restaurants, Vehicles: vehicles})
	}
}
