package export

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

// ImportRestaurants reads the roster from the first sheet of an xlsx
// stream. The header row must carry every column the assignment stage
// needs; data rows missing both names are skipped with a warning.
func ImportRestaurants(r io.Reader, log *slog.Logger) ([]storage.Restaurant, error) {
	const op = "service.export.ImportRestaurants"

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: open workbook: %w", op, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet: %w", op, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: empty sheet", op, pipeline.ErrMissingColumns)
	}

	if err := pipeline.ValidateColumns(rows[0]); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.TrimSpace(h)] = i
	}
	cell := func(row []string, name string) string {
		i := col[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var restaurants []storage.Restaurant
	for n, row := range rows[1:] {
		rest := storage.Restaurant{
			ChineseName:    cell(row, "Chinese name"),
			EnglishName:    cell(row, "English name"),
			ChineseAddress: cell(row, "Chinese Address"),
			EnglishAddress: cell(row, "English Address"),
			Coordinates:    cell(row, "Coordinates"),
			ContactPerson:  cell(row, "Contact person(EN)"),
			Phone:          cell(row, "Telephone number"),
			Street:         cell(row, "Street"),
			District:       cell(row, "District"),
			Type:           cell(row, "Restaurant type"),
		}
		if rest.ChineseName == "" && rest.EnglishName == "" {
			log.Warn("skipping roster row without a name", slog.Int("row", n+2))
			continue
		}
		if v := cell(row, "Distance (km)"); v != "" {
			km, err := strconv.ParseFloat(v, 64)
			if err != nil {
				log.Warn("bad distance, keeping zero",
					slog.Int("row", n+2), slog.String("value", v))
			} else {
				rest.DistanceKM = km
			}
		}
		restaurants = append(restaurants, rest)
	}

	return restaurants, nil
}
