package models

import (
	"errors"
	"strings"
)

var (
	ErrNoFile            = errors.New("no file part")
	ErrNoSelectedFile    = errors.New("no selected file")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDataset      = errors.New("no rows with a valid coordinate")
)

// SchemaError reports required headers absent from the sheet.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

// Error kinds, used as log fields and metric labels.
const (
	KindNoFile            = "no_file"
	KindUnsupportedFormat = "unsupported_format"
	KindSchema            = "schema"
	KindEmptyDataset      = "empty_dataset"
	KindUnexpected        = "unexpected"
)

// Describe maps an error to its kind and the message shown to the user.
// Errors outside the known set are reported with their own text.
func Describe(err error) (kind, message string) {
	var schemaErr *SchemaError
	switch {
	case errors.Is(err, ErrNoFile):
		return KindNoFile, "No file part"
	case errors.Is(err, ErrNoSelectedFile):
		return KindNoFile, "No selected file"
	case errors.Is(err, ErrUnsupportedFormat):
		return KindUnsupportedFormat, "Invalid file format. Please upload CSV or Excel."
	case errors.As(err, &schemaErr):
		return KindSchema, "Missing columns: " + strings.Join(schemaErr.Missing, ", ")
	case errors.Is(err, ErrEmptyDataset):
		return KindEmptyDataset, "No valid geographic data found in the file."
	default:
		return KindUnexpected, err.Error()
	}
}
