package excel

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"sales-geomap/internal/models"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var errEmptyCell = errors.New("empty")

// Table is a sheet as rows of text, header first.
type Table struct {
	Header []string
	Rows   [][]string
}

// ParseNumber reads a numeric cell. Surrounding space is ignored; separators
// of any kind make the value non-numeric.
func ParseNumber(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, errEmptyCell
	}
	n, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %q", val)
	}
	return n, nil
}

// ReadTable loads the first sheet of a workbook, or the whole of a CSV file,
// choosing the reader by extension.
func ReadTable(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx", ".xls":
		return ReadWorkbook(path)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), models.ErrUnsupportedFormat)
	}
}

func ReadWorkbook(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open workbook: no sheets found")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return newTable(rows), nil
}

func newTable(rows [][]string) *Table {
	if len(rows) == 0 {
		return &Table{}
	}
	return &Table{Header: rows[0], Rows: rows[1:]}
}

// columnIndex maps each required header to its position. The first
// occurrence of a duplicated header wins.
func (t *Table) columnIndex() (map[string]int, error) {
	pos := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, seen := pos[h]; !seen {
			pos[h] = i
		}
	}

	var missing []string
	for _, col := range models.RequiredColumns {
		if _, ok := pos[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &models.SchemaError{Missing: missing}
	}
	return pos, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ReadCustomers validates the header and cleans every row. Sales that do not
// parse count as 0; rows whose latitude or longitude do not parse are
// skipped and counted in dropped. Fully blank rows are ignored.
func ReadCustomers(t *Table) (customers []models.Customer, dropped int, err error) {
	col, err := t.columnIndex()
	if err != nil {
		return nil, 0, err
	}

	for i, row := range t.Rows {
		if blank(row) {
			continue
		}

		lat, err1 := ParseNumber(cell(row, col[models.ColLatitude]))
		lon, err2 := ParseNumber(cell(row, col[models.ColLongitude]))
		if err1 != nil || err2 != nil {
			dropped++
			continue // Skip invalid rows
		}

		sales, err := ParseNumber(cell(row, col[models.ColSales]))
		if err != nil {
			sales = 0
		}

		customers = append(customers, models.Customer{
			ID:       strings.TrimSpace(cell(row, col[models.ColCustomerNo])),
			Name:     strings.TrimSpace(cell(row, col[models.ColCustomerName])),
			Location: strings.TrimSpace(cell(row, col[models.ColLocation])),
			Loc: models.Coordinate{
				Lat: lat,
				Lon: lon,
			},
			Sales:    sales,
			RowIndex: i + 2,
		})
	}
	return customers, dropped, nil
}
