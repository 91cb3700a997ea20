package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"oil-backend/internal/service/pipeline"
	"oil-backend/internal/storage"
)

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// CollectionSheetExcel renders the assignment sheet. The plate and
// window-total cells of each closed window are merged vertically, the way
// the dispatchers read the printout.
func CollectionSheetExcel(rows []storage.CollectionRow) ([]byte, error) {
	const op = "service.export.CollectionSheetExcel"

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Collection"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	centerStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := append(append([]string{}, pipeline.RequiredColumns...),
		"Barrels", "Plate", "Window total", "Serial", "Collected at", "Sales contract")
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	const (
		plateCol = 13
		totalCol = 14
	)

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), r.ChineseName)
		f.SetCellValue(sheet, cellName(2, row), r.EnglishName)
		f.SetCellValue(sheet, cellName(3, row), r.ChineseAddress)
		f.SetCellValue(sheet, cellName(4, row), r.EnglishAddress)
		f.SetCellValue(sheet, cellName(5, row), r.Coordinates)
		f.SetCellValue(sheet, cellName(6, row), r.ContactPerson)
		f.SetCellValue(sheet, cellName(7, row), r.Phone)
		f.SetCellValue(sheet, cellName(8, row), r.DistanceKM)
		f.SetCellValue(sheet, cellName(9, row), r.Street)
		f.SetCellValue(sheet, cellName(10, row), r.District)
		f.SetCellValue(sheet, cellName(11, row), r.Type)
		f.SetCellValue(sheet, cellName(12, row), r.Barrels)
		f.SetCellValue(sheet, cellName(plateCol, row), r.Plate)
		if r.Assigned() {
			f.SetCellValue(sheet, cellName(totalCol, row), r.WindowTotal)
		}
		f.SetCellValue(sheet, cellName(15, row), r.Serial)
		if r.CollectedAt != nil {
			f.SetCellValue(sheet, cellName(16, row), r.CollectedAt.Format("2006-01-02"))
		}
		f.SetCellValue(sheet, cellName(17, row), r.SalesContract)
	}

	// Merge each window's plate and total cells.
	start := 0
	for start < len(rows) {
		end := start
		for end+1 < len(rows) &&
			rows[end+1].Plate == rows[start].Plate &&
			rows[end+1].WindowTotal == rows[start].WindowTotal {
			end++
		}
		if end > start && rows[start].Assigned() {
			for _, c := range []int{plateCol, totalCol} {
				top, bottom := cellName(c, start+2), cellName(c, end+2)
				if err := f.MergeCell(sheet, top, bottom); err != nil {
					return nil, fmt.Errorf("%s: merge %s:%s: %w", op, top, bottom, err)
				}
				f.SetCellStyle(sheet, top, bottom, centerStyle)
			}
		}
		start = end + 1
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

// BalanceSheetExcel renders the settlement sheet.
func BalanceSheetExcel(rows []storage.BalanceRow) ([]byte, error) {
	const op = "service.export.BalanceSheetExcel"

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Balance"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
	})

	headers := []string{"District", "Plate", "Window total", "Net weight",
		"Cargo type", "Transport", "Serial", "Doc no", "Delivery date", "Contract"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), h)
	}
	f.SetCellStyle(sheet, "A1", cellName(len(headers), 1), headerStyle)

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheet, cellName(1, row), r.District)
		f.SetCellValue(sheet, cellName(2, row), r.Plate)
		f.SetCellValue(sheet, cellName(3, row), r.WindowTotal)
		f.SetCellValue(sheet, cellName(4, row), r.NetWeight)
		f.SetCellValue(sheet, cellName(5, row), r.CargoType)
		f.SetCellValue(sheet, cellName(6, row), r.Transport)
		f.SetCellValue(sheet, cellName(7, row), r.Serial)
		f.SetCellValue(sheet, cellName(8, row), r.DocNo)
		f.SetCellValue(sheet, cellName(9, row), r.DeliveryDate.Format("2006-01-02"))
		f.SetCellValue(sheet, cellName(10, row), r.Contract)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}
