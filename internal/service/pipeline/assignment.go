package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"oil-backend/internal/storage"
)

// RequiredColumns are the roster-sheet headers the assignment stage needs.
// The excel importer validates against this list before building rows.
var RequiredColumns = []string{
	"Chinese name", "English name", "Chinese Address", "English Address",
	"Coordinates", "Contact person(EN)", "Telephone number", "Distance (km)",
	"Street", "District", "Restaurant type",
}

// ValidateColumns checks a header row against RequiredColumns.
func ValidateColumns(headers []string) error {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[strings.TrimSpace(h)] = true
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// BuildCollectionSheet sorts the roster by (district, street, random draw),
// draws a barrel count per visit from the type mapping and packs
// consecutive visits of a district into vehicle windows. Every closed
// window lands in [WindowMin, WindowMax]; a district's trailing remainder
// below WindowMin stays unassigned unless KeepPartialWindow is set.
func (s *Service) BuildCollectionSheet(restaurants []storage.Restaurant, vehicles []storage.Vehicle) ([]storage.CollectionRow, error) {
	const op = "service.pipeline.BuildCollectionSheet"

	if len(vehicles) == 0 {
		return nil, fmt.Errorf("%s: %w: vehicle roster is empty", op, ErrBadParam)
	}

	type visit struct {
		row  storage.CollectionRow
		draw float64
	}

	visits := make([]visit, 0, len(restaurants))
	for _, r := range restaurants {
		if r.ChineseName == "" && r.EnglishName == "" {
			s.log.Warn("dropping roster row without a name",
				slog.String("op", op), slog.String("district", r.District))
			continue
		}
		amount, err := s.collectionAmount(r.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		visits = append(visits, visit{
			row:  storage.CollectionRow{Restaurant: r, Barrels: amount},
			draw: s.rnd.Float64(),
		})
	}

	sort.SliceStable(visits, func(i, j int) bool {
		a, b := visits[i], visits[j]
		if a.row.District != b.row.District {
			return a.row.District < b.row.District
		}
		if a.row.Street != b.row.Street {
			return a.row.Street < b.row.Street
		}
		return a.draw < b.draw
	})

	rows := make([]storage.CollectionRow, len(visits))
	for i, v := range visits {
		rows[i] = v.row
	}

	// One shuffle per run, then cycle.
	plates := make([]string, len(vehicles))
	for i, p := range s.rnd.Perm(len(vehicles)) {
		plates[i] = vehicles[p].Plate
	}

	vehIdx := 0
	closeWindow := func(start, end, total int) {
		for j := start; j <= end; j++ {
			rows[j].Plate = plates[vehIdx]
			rows[j].WindowTotal = total
		}
		vehIdx = (vehIdx + 1) % len(plates)
	}

	start, sum := 0, 0
	flushTrailing := func(end int) {
		if end < start {
			return
		}
		if sum >= s.cfg.WindowMin || (s.cfg.KeepPartialWindow && sum > 0) {
			closeWindow(start, end, sum)
		}
		// else: the remainder stays unassigned
	}

	for i := range rows {
		if i > 0 && rows[i].District != rows[i-1].District {
			flushTrailing(i - 1)
			start, sum = i, 0
		}
		sum += rows[i].Barrels
		if sum >= s.cfg.WindowMin && sum <= s.cfg.WindowMax {
			closeWindow(start, i, sum)
			start, sum = i+1, 0
		}
	}
	flushTrailing(len(rows) - 1)

	return rows, nil
}

// collectionAmount draws the per-visit barrel count: the union of the
// options of every matching keyword group, or {1, 2} when nothing matches.
func (s *Service) collectionAmount(rtype string) (int, error) {
	var opts []int
	seen := make(map[int]bool)

	for _, rule := range s.cfg.AmountRules {
		matched := false
		for _, kw := range strings.Split(rule.Types, "/") {
			if kw != "" && strings.Contains(rtype, kw) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		vals, err := rule.Options()
		if err != nil {
			return 0, err
		}
		for _, v := range vals {
			if !seen[v] {
				seen[v] = true
				opts = append(opts, v)
			}
		}
	}

	if len(opts) == 0 {
		opts = []int{1, 2}
	}
	return opts[s.rnd.Intn(len(opts))], nil
}
