package excel

import (
	"io"
	"sales-geomap/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateSheet = "Customers"
	ReportSheet   = "Report"
	SummarySheet  = "Summary"
)

var templateExamples = [][]interface{}{
	{"C-1001", 19.0760, 72.8777, "Sharma Traders", "Mumbai", 125000},
	{"C-1002", 28.6139, 77.2090, "Gupta & Sons", "New Delhi", 98000.5},
}

func requiredHeader() []interface{} {
	header := make([]interface{}, len(models.RequiredColumns))
	for i, col := range models.RequiredColumns {
		header[i] = col
	}
	return header
}

// WriteTemplate writes an empty upload sheet with the expected header and a
// couple of example customers.
func WriteTemplate(w io.Writer) error {
	return writeSheet(w, TemplateSheet, requiredHeader(), templateExamples, nil)
}

// WriteReport writes every mapped customer with its classification, plus a
// summary sheet holding the average.
func WriteReport(w io.Writer, report *models.Report, labels map[models.Classification]string) error {
	header := append(requiredHeader(), "Status")

	rows := make([][]interface{}, 0, len(report.Markers))
	for _, m := range report.Markers {
		c := m.Customer
		status := labels[m.Class]
		if status == "" {
			status = string(m.Class)
		}
		rows = append(rows, []interface{}{
			c.ID, c.Loc.Lat, c.Loc.Lon, c.Name, c.Location, c.Sales, status,
		})
	}

	summary := func(f *excelize.File) error {
		if _, err := f.NewSheet(SummarySheet); err != nil {
			return err
		}
		cells := [][]interface{}{
			{"Average Sales", report.AverageSales},
			{"Mapped Rows", len(report.Markers)},
			{"Dropped Rows", report.Dropped},
		}
		for i, row := range cells {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
				return err
			}
		}
		return nil
	}

	return writeSheet(w, ReportSheet, header, rows, summary)
}

func writeSheet(w io.Writer, sheetName string, headers []interface{}, data [][]interface{}, extra func(*excelize.File) error) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	// Use Stream Writer for performance
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", headers); err != nil {
		return err
	}

	for i, row := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	if extra != nil {
		if err := extra(f); err != nil {
			return err
		}
	}

	f.SetActiveSheet(index)
	// Delete default sheet if exists
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	_, err = f.WriteTo(w)
	return err
}
