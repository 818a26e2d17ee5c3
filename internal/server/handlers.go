package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"sales-geomap/internal/calculator"
	"sales-geomap/internal/excel"
	"sales-geomap/internal/metrics"
	"sales-geomap/internal/models"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"AuthEnabled": s.cfg.Auth.Enabled(),
		"MaxUploadMB": s.cfg.Server.MaxUploadMB,
	})
}

// buildReport takes the "file" form field through storage, parsing,
// cleaning and aggregation. The stored copy is removed before it returns,
// whatever the outcome.
func (s *Server) buildReport(c *gin.Context) (*models.Report, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", fmt.Errorf("upload exceeds the %d MB limit", s.cfg.Server.MaxUploadMB)
		}
		return nil, "", models.ErrNoFile
	}
	if file.Filename == "" {
		return nil, "", models.ErrNoSelectedFile
	}

	path, cleanup, err := s.store.SaveMultipart(file)
	defer cleanup()
	if err != nil {
		return nil, file.Filename, err
	}

	table, err := excel.ReadTable(path)
	if err != nil {
		return nil, file.Filename, err
	}

	customers, dropped, err := excel.ReadCustomers(table)
	if err != nil {
		return nil, file.Filename, err
	}

	report, err := calculator.BuildReport(customers, dropped)
	if err != nil {
		return nil, file.Filename, err
	}
	return report, file.Filename, nil
}

// fail logs and counts a failed report and answers with the uniform error
// payload.
func (s *Server) fail(c *gin.Context, filename string, start time.Time, err error) {
	kind, msg := models.Describe(err)
	s.logger.Warn("report failed",
		slog.String("file", filename),
		slog.String("kind", kind),
		slog.Any("error", err))
	metrics.ObserveReport(kind, 0, 0, time.Since(start))
	c.JSON(http.StatusOK, gin.H{"error": msg})
}

func (s *Server) succeed(filename string, start time.Time, report *models.Report) {
	s.logger.Info("report built",
		slog.String("file", filename),
		slog.Int("rows", len(report.Markers)),
		slog.Int("dropped", report.Dropped),
		slog.Float64("average_sales", report.AverageSales),
		slog.Duration("elapsed", time.Since(start)))
	metrics.ObserveReport("ok", len(report.Markers), report.Dropped, time.Since(start))
}

func (s *Server) handleUpload(c *gin.Context) {
	start := time.Now()

	report, filename, err := s.buildReport(c)
	if err != nil {
		s.fail(c, filename, start, err)
		return
	}

	mapHTML, err := s.renderer.Render(report)
	if err != nil {
		s.fail(c, filename, start, err)
		return
	}

	s.succeed(filename, start, report)
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"average_sales": report.AverageSales,
		"map_html":      mapHTML,
		"rows":          len(report.Markers),
		"dropped":       report.Dropped,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	start := time.Now()

	report, filename, err := s.buildReport(c)
	if err != nil {
		s.fail(c, filename, start, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, report, s.renderer.Palette().Labels()); err != nil {
		s.fail(c, filename, start, fmt.Errorf("writing report workbook: %w", err))
		return
	}

	s.succeed(filename, start, report)
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	attachment(c, base+"_report.xlsx", buf.Bytes())
}

func (s *Server) handleTemplate(c *gin.Context) {
	var buf bytes.Buffer
	if err := excel.WriteTemplate(&buf); err != nil {
		s.logger.Error("writing template", slog.Any("error", err))
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	attachment(c, "sales_template.xlsx", buf.Bytes())
}

func attachment(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, xlsxContentType, data)
}
