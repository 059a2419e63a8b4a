package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type gridRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
}

type gridViewSource interface {
	View(ctx context.Context, id string) (*models.GridView, bool, error)
}

// ExportResult is a rendered grid file.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders a session's grid as CSV or PDF.
type ExportService struct {
	views     gridViewSource
	renderers map[string]gridRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// package defaults.
func NewExportService(views gridViewSource, logger *zap.Logger, csv, pdf gridRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		views:     views,
		renderers: map[string]gridRenderer{FormatCSV: csv, FormatPDF: pdf},
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders the current grid of a session in the requested format.
func (s *ExportService) Export(ctx context.Context, sessionID, format string) (*ExportResult, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedType, fmt.Sprintf("unsupported export format %q", format))
	}

	view, _, err := s.views.View(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	title, label := "Availability", "available"
	if view.Role == models.RoleAdmin {
		title, label = "Blocked time slots", "blocked"
	}
	body, err := renderer.Render(export.GridDataset(title, view.Grid, label))
	if err != nil {
		s.logger.Error("grid export failed", zap.String("session_id", sessionID), zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("timetable-%s-%s.%s", view.Role, s.now().UTC().Format("20060102-150405"), format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}
