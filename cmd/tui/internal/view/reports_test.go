package view

import (
	"archive/zip"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fonda/internal/export"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

func TestWriteExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	bundle := &export.Bundle{
		Summary: &report.Summary{From: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	path, err := writeExport(dir, "export.zip", bundle)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "export.zip"), path)

	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	assert.Len(t, zr.File, 2)
}

func TestReportsModel_ExportResult(t *testing.T) {
	m := NewReportsModel(nil)
	m.state = reportsStateResult
	m.summary = &report.Summary{}

	next, _ := m.Update(reportExportedMsg{path: "exports/x.zip"})
	assert.Contains(t, next.(ReportsModel).exported, "Exported to exports/x.zip")

	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.NotNil(t, cmd)
	assert.Equal(t, reportsStateResult, next.(ReportsModel).state)
}
