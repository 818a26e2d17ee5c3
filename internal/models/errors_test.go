package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind string
		wantMsg  string
	}{
		{"no file", ErrNoFile, KindNoFile, "No file part"},
		{"empty filename", ErrNoSelectedFile, KindNoFile, "No selected file"},
		{"wrapped format", fmt.Errorf("report.txt: %w", ErrUnsupportedFormat), KindUnsupportedFormat, "Invalid file format. Please upload CSV or Excel."},
		{"schema", &SchemaError{Missing: []string{ColLatitude, ColSales}}, KindSchema, "Missing columns: LAT, Sales"},
		{"wrapped schema", fmt.Errorf("read: %w", &SchemaError{Missing: []string{ColLatitude}}), KindSchema, "Missing columns: LAT"},
		{"empty dataset", ErrEmptyDataset, KindEmptyDataset, "No valid geographic data found in the file."},
		{"anything else", errors.New("open workbook: zip: not a valid zip file"), KindUnexpected, "open workbook: zip: not a valid zip file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg := Describe(tt.err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestBoundsCorners(t *testing.T) {
	b := Bounds{MinLat: 1, MinLon: 2, MaxLat: 3, MaxLon: 4}
	assert.Equal(t, Coordinate{Lat: 1, Lon: 2}, b.SouthWest())
	assert.Equal(t, Coordinate{Lat: 3, Lon: 4}, b.NorthEast())
}
