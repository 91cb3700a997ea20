package excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"oil-backend/internal/service/export"
	"oil-backend/internal/storage"
)

type SheetProvider interface {
	GetCollectionSheet(ctx context.Context) ([]storage.CollectionRow, error)
	GetBalanceSheet(ctx context.Context, month string) ([]storage.BalanceRow, error)
}

// DownloadSheet streams a sheet as an xlsx attachment.
// Query: sheet=collection|balance, month=YYYY-MM (balance only).
func DownloadSheet(log *slog.Logger, provider SheetProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.excel.DownloadSheet"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		var (
			data []byte
			name string
			err  error
		)
		switch sheet := r.URL.Query().Get("sheet"); sheet {
		case "collection":
			var rows []storage.CollectionRow
			rows, err = provider.GetCollectionSheet(ctx)
			if err == nil {
				data, err = export.CollectionSheetExcel(rows)
			}
			name = "collection.xlsx"
		case "balance":
			month := r.URL.Query().Get("month")
			if _, perr := time.Parse("2006-01", month); perr != nil {
				http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
				return
			}
			var rows []storage.BalanceRow
			rows, err = provider.GetBalanceSheet(ctx, month)
			if err == nil {
				data, err = export.BalanceSheetExcel(rows)
			}
			name = fmt.Sprintf("balance-%s.xlsx", month)
		default:
			http.Error(w, "sheet must be collection or balance", http.StatusBadRequest)
			return
		}
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).
				Error("failed to build workbook")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.Write(data)
	}
}
