package services

import (
	"encoding/json"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildExportEmptyDatabase(t *testing.T) {
	db, mock := newMockDB(t)
	for _, table := range []string{"lanterns", "parks", "breakdowns", "renovations", "repairmen", "companies"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM " + table + " ORDER BY id")).
			WillReturnError(assert.AnError)
	}

	data := BuildExport(db, "admin@example.com", "json")
	assert.NotNil(t, data.Lanterns)
	assert.Empty(t, data.Lanterns)
	assert.NotNil(t, data.Parks)
	assert.NotNil(t, data.Companies)
	assert.Equal(t, 0, data.ExportInfo.TotalRecords)
	assert.Equal(t, "admin@example.com", data.ExportInfo.ExportedBy)
	assert.Equal(t, "json", data.ExportInfo.Format)
	assert.False(t, data.ExportInfo.Timestamp.IsZero())

	// Empty tables serialize as [] rather than null.
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"lanterns":[]`)
}

func TestBuildExportCountsRecords(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM lanterns ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_brightness", "active_brightness", "active_time", "status"}).
			AddRow(int64(1), 50, 100, 30, "working").
			AddRow(int64(2), 40, 90, 60, "off"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM parks ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address"}).
			AddRow(int64(1), "Valea Morilor", "Str. Exemplu 1"))
	for _, table := range []string{"breakdowns", "renovations", "repairmen", "companies"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM " + table + " ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	data := BuildExport(db, "admin@example.com", "json")
	assert.Equal(t, 3, data.ExportInfo.TotalRecords)
	assert.Len(t, data.Lanterns, 2)
	assert.Len(t, data.Parks, 1)
}

func TestBuildBackupIncludesAdminsAndActivities(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admins ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "surname", "email", "password_hash", "status", "rights"}).
			AddRow(int64(1), "Ana", "Popescu", "ana@example.com", "secret-hash", "active", "full_access"))
	for _, table := range []string{"lanterns", "parks", "breakdowns", "renovations", "repairmen", "companies", "database_activities"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM " + table + " ORDER BY id")).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
	}

	data := BuildBackup(db, "ana@example.com")
	require.Len(t, data.Admins, 1)
	assert.Equal(t, "1.0", data.BackupInfo.Version)
	assert.Equal(t, 1, data.BackupInfo.TotalRecords)

	// Password hashes never leave the system in a backup document.
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestImportSkipsExistingRows(t *testing.T) {
	db, mock := newMockDB(t)
	doc := []byte(`{"data":{"parks":[{"id":1,"name":"Dendrariu","address":"Str. Exemplu 2"}]}}`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	counts, err := ImportData(db, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, counts.Parks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportInsertsMissingRows(t *testing.T) {
	db, mock := newMockDB(t)
	doc := []byte(`{"parks":[{"id":4,"name":"Riscani","address":"Str. Exemplu 3"}],"companies":[{"id":2,"name":"Lumina SRL"}]}`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO parks")).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO companies")).
		WillReturnResult(sqlmock.NewResult(2, 1))
	for _, table := range []string{"parks", "companies", "repairmen", "lanterns", "breakdowns", "renovations"} {
		mock.ExpectExec(regexp.QuoteMeta("SELECT setval(pg_get_serial_sequence('" + table + "', 'id'), COALESCE(MAX(id), 1)) FROM " + table)).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}

	counts, err := ImportData(db, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Parks)
	assert.Equal(t, 1, counts.Companies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportBadRowIsIsolated(t *testing.T) {
	db, mock := newMockDB(t)
	doc := []byte(`{"companies":[{"id":1,"name":"A"},{"id":2,"name":"B"}]}`)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO companies")).
		WillReturnError(assert.AnError)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM companies WHERE id = $1)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO companies")).
		WillReturnResult(sqlmock.NewResult(2, 1))

	counts, err := ImportData(db, doc)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Companies)
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	db, _ := newMockDB(t)
	_, err := ImportData(db, []byte("not json"))
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 400, serr.Status)
}
