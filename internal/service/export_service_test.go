package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/interview-timetable-api/internal/models"
	appErrors "github.com/noah-isme/interview-timetable-api/pkg/errors"
	"github.com/noah-isme/interview-timetable-api/pkg/export"
	"github.com/noah-isme/interview-timetable-api/pkg/timegrid"
)

type failingRenderer struct{}

func (failingRenderer) Render(export.Dataset) ([]byte, error) { return nil, errors.New("disk full") }
func (failingRenderer) ContentType() string                  { return "text/csv" }

func TestExportServiceRendersSessionGrid(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleApplicant, "")
	_, err := f.svc.Toggle(ctx, id, timegrid.Cell{DateIndex: 0, Hour: 9, Minute: 0})
	require.NoError(t, err)

	svc := NewExportService(f.svc, zap.NewNop(), nil, nil)

	csvOut, err := svc.Export(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", csvOut.ContentType)
	assert.True(t, strings.HasSuffix(csvOut.Filename, ".csv"))
	lines := strings.Split(strings.TrimSpace(string(csvOut.Body)), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "# Availability", lines[0])
	assert.Equal(t, "Time,Mon 2026-10-19,Tue 2026-10-20,Wed 2026-10-21", lines[1])
	assert.Equal(t, "09:00,available,,", lines[2])
	assert.Equal(t, "09:30,,-,", lines[3])

	pdfOut, err := svc.Export(ctx, id, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", pdfOut.ContentType)
	assert.True(t, bytes.HasPrefix(pdfOut.Body, []byte("%PDF")))
}

func TestExportServiceErrors(t *testing.T) {
	f := newSessionFixture(t, SessionServiceConfig{})
	ctx := context.Background()
	id := f.open(t, models.RoleAdmin, "")

	svc := NewExportService(f.svc, nil, failingRenderer{}, nil)

	_, err := svc.Export(ctx, id, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrUnsupportedType))

	_, err = svc.Export(ctx, "missing", "pdf")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))

	_, err = svc.Export(ctx, id, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
