package services

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExcelExportSheets(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM lanterns ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_brightness", "active_brightness", "active_time", "status"}).
			AddRow(int64(1), "L-001", 50, 100, 30, "working"))
	for _, table := range []string{"parks", "breakdowns", "renovations", "repairmen", "companies"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM " + table + " ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	file, err := BuildExcelExport(db, "admin@example.com")
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	for _, name := range []string{"Lanterns", "Parks", "Breakdowns", "Renovations", "Repairmen", "Companies", "Info"} {
		assert.Contains(t, sheets, name)
	}
	assert.NotContains(t, sheets, "Sheet1")

	header, err := file.GetCellValue("Lanterns", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)
	name, err := file.GetCellValue("Lanterns", "B2")
	require.NoError(t, err)
	assert.Equal(t, "L-001", name)

	exportedBy, err := file.GetCellValue("Info", "B3")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", exportedBy)
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename("smartlighting_export", "xlsx")
	assert.Regexp(t, `^smartlighting_export_\d{8}_\d{6}\.xlsx$`, name)
}
