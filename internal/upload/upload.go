package upload

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"sales-geomap/internal/models"
	"strings"

	"github.com/google/uuid"
)

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xls":  true,
	".xlsx": true,
}

// CheckExtension returns the lower-cased extension of an accepted sales
// file, or ErrUnsupportedFormat.
func CheckExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%q: %w", filepath.Base(filename), models.ErrUnsupportedFormat)
	}
	return ext, nil
}

// Store keeps uploads on local disk for the length of one request.
type Store struct {
	dir    string
	logger *slog.Logger
}

func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Save copies r to a uniquely named file keeping the extension of name. The
// returned cleanup removes the file and must be called on every path; it is
// a no-op when Save fails.
func (s *Store) Save(name string, r io.Reader) (path string, cleanup func(), err error) {
	path = filepath.Join(s.dir, fmt.Sprintf("%s%s", uuid.New().String(), strings.ToLower(filepath.Ext(name))))

	f, err := os.Create(path)
	if err != nil {
		return "", func() {}, fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", func() {}, fmt.Errorf("writing file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", func() {}, fmt.Errorf("writing file: %w", err)
	}

	cleanup = func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove upload", slog.String("path", path), slog.Any("error", err))
		}
	}
	return path, cleanup, nil
}

// SaveMultipart stores a form upload after checking its extension.
func (s *Store) SaveMultipart(fh *multipart.FileHeader) (path string, cleanup func(), err error) {
	if _, err := CheckExtension(fh.Filename); err != nil {
		return "", func() {}, err
	}

	src, err := fh.Open()
	if err != nil {
		return "", func() {}, fmt.Errorf("opening uploaded file: %w", err)
	}
	defer src.Close()

	return s.Save(fh.Filename, src)
}
