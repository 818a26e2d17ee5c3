package excel

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"sales-geomap/internal/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var header = []string{"Customer No.", "LAT", "LONG", "Customer Name", "Location", "Sales"}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"41.0082", 41.0082, false},
		{" 28.9784 ", 28.9784, false},
		{"41,0082", 0, true},
		{"1,500", 0, true},
		{"2,500,000", 0, true},
		{"1,234.50", 0, true},
		{"1,2,3", 0, true},
		{"-3.5", -3.5, false},
		{"1e3", 1000, false},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, true},
		{"NaN", 0, true},
		{"inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseNumber(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestReadCustomers(t *testing.T) {
	table := &Table{
		Header: header,
		Rows: [][]string{
			{"C1", "1", "1", "Alpha", "Pune", "100"},
			{"C2", "2", "2", "Beta", "Goa", "n/a"},
			{"C3", "north", "3", "Gamma", "Agra", "300"},
			{"C4", "4", "", "Delta", "Kochi", "400"},
			{},
			{"C5", "5", "5", "Epsilon"},
		},
	}

	customers, dropped, err := ReadCustomers(table)
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	require.Len(t, customers, 3)

	assert.Equal(t, models.Customer{
		ID: "C1", Name: "Alpha", Location: "Pune",
		Loc: models.Coordinate{Lat: 1, Lon: 1}, Sales: 100, RowIndex: 2,
	}, customers[0])
	assert.Equal(t, 0.0, customers[1].Sales, "unparsable sales become zero")
	assert.Equal(t, "C5", customers[2].ID)
	assert.Equal(t, 0.0, customers[2].Sales, "missing sales cell becomes zero")
	assert.Equal(t, "", customers[2].Location)
}

func TestReadCustomers_ColumnOrderIndependent(t *testing.T) {
	table := &Table{
		Header: []string{"Sales", "Location", "Customer Name", "LONG", "LAT", "Customer No.", "Extra"},
		Rows:   [][]string{{"250", "Surat", "Zeta", "72.83", "21.17", "C9", "ignored"}},
	}

	customers, _, err := ReadCustomers(table)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, models.Coordinate{Lat: 21.17, Lon: 72.83}, customers[0].Loc)
	assert.Equal(t, 250.0, customers[0].Sales)
}

func TestReadCustomers_MissingColumns(t *testing.T) {
	table := &Table{Header: []string{"Customer No.", "LONG", "Customer Name", "Location"}}

	_, _, err := ReadCustomers(table)

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"LAT", "Sales"}, schemaErr.Missing)
}

func TestReadCustomers_EmptyTable(t *testing.T) {
	_, _, err := ReadCustomers(&Table{})

	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, models.RequiredColumns, schemaErr.Missing)
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffCustomer No.,LAT,LONG,Customer Name,Location,Sales\n" +
		"C1,19.07,72.87,\"Sharma, Traders\",Mumbai,\"1,500.25\"\n" +
		"\n" +
		"C2,28.61,77.20,Gupta\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)
	require.Len(t, table.Rows, 2)

	customers, dropped, err := ReadCustomers(table)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, customers, 2)
	assert.Equal(t, "Sharma, Traders", customers[0].Name)
	assert.Equal(t, 0.0, customers[0].Sales, "thousands separators are not numeric")
}

func TestReadCustomers_SeparatedNumbers(t *testing.T) {
	input := "Customer No.,LAT,LONG,Customer Name,Location,Sales\n" +
		"C1,19.07,72.87,Alpha,Mumbai,\"1,500\"\n" +
		"C2,28.61,77.20,Beta,Delhi,\"2,500,000\"\n" +
		"C3,\"41,5\",29.01,Gamma,Istanbul,700\n" +
		"C4,12.97,77.59,Delta,Bengaluru,\"1,2,3\"\n"

	table, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)

	customers, dropped, err := ReadCustomers(table)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, customers, 3)
	for _, c := range customers {
		assert.Equal(t, 0.0, c.Sales, c.ID)
	}
	assert.Equal(t, []string{"C1", "C2", "C4"}, []string{customers[0].ID, customers[1].ID, customers[2].ID})
}

func TestReadCustomers_HeaderMatchesExactly(t *testing.T) {
	table, err := ReadCSV(strings.NewReader(" LAT,Customer No.,LONG,Customer Name,Location,Sales \n1,C1,1,A,B,1\n"))
	require.NoError(t, err)

	_, _, err = ReadCustomers(table)
	var schemaErr *models.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"LAT", "Sales"}, schemaErr.Missing)
}

func TestReadTable_Workbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Customer No.", "LAT", "LONG", "Customer Name", "Location", "Sales"},
		{1001, 12.9716, 77.5946, "Rao Stores", "Bengaluru", 4200.75},
		{1002, "bad", 80.27, "Iyer Mart", "Chennai", 100},
	})

	table, err := ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, header, table.Header)

	customers, dropped, err := ReadCustomers(table)
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	require.Len(t, customers, 1)
	assert.Equal(t, "1001", customers[0].ID)
	assert.InDelta(t, 12.9716, customers[0].Loc.Lat, 1e-9)
	assert.InDelta(t, 4200.75, customers[0].Sales, 1e-9)
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	_, err := ReadTable(filepath.Join(t.TempDir(), "notes.txt"))
	assert.ErrorIs(t, err, models.ErrUnsupportedFormat)
}

func TestReadTable_CorruptWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xls")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := ReadTable(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open workbook")
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{TemplateSheet}, f.GetSheetList())
	rows, err := f.GetRows(TemplateSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, header, rows[0])
}

func TestWriteTemplate_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	table, err := ReadTable(path)
	require.NoError(t, err)
	customers, dropped, err := ReadCustomers(table)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	assert.Len(t, customers, len(templateExamples))
}

func TestWriteReport(t *testing.T) {
	report := &models.Report{
		AverageSales: 200,
		Dropped:      1,
		Markers: []models.Marker{
			{Customer: models.Customer{ID: "C1", Name: "Alpha", Location: "Pune", Loc: models.Coordinate{Lat: 1, Lon: 1}, Sales: 100}, Class: models.BelowAverage},
			{Customer: models.Customer{ID: "C2", Name: "Beta", Location: "Goa", Loc: models.Coordinate{Lat: 2, Lon: 2}, Sales: 300}, Class: models.AboveAverage},
		},
	}
	labels := map[models.Classification]string{
		models.AboveAverage: "Above Average",
		models.BelowAverage: "Below Average",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, report, labels))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ReportSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Status", rows[0][6])
	assert.Equal(t, []string{"C1", "1", "1", "Alpha", "Pune", "100", "Below Average"}, rows[1])
	assert.Equal(t, "Above Average", rows[2][6])

	avg, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "200", avg)
}
