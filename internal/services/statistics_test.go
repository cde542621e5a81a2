package services

import (
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

func TestFetchStatisticsParkNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := FetchStatistics(db, 99)
	require.Error(t, err)
	serr, ok := err.(ServiceError)
	require.True(t, ok)
	assert.Equal(t, 404, serr.Status)
	assert.Equal(t, "Park not found", serr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchStatisticsReshapesTuples(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_top_activated_lanterns($1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "activation_count"}).
			AddRow(int64(5), int64(120)).
			AddRow(int64(9), int64(44)))

	lastRenovated := time.Date(2023, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_lanterns_needing_renovation($1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_renovation_date"}).
			AddRow(int64(5), lastRenovated))

	planned := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_planned_renovations($1)")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lantern_id", "date"}).
			AddRow(int64(2), int64(9), planned))

	stats, err := FetchStatistics(db, 3)
	require.NoError(t, err)
	require.Len(t, stats.TopActivatedLanterns, 2)
	assert.Equal(t, int64(120), stats.TopActivatedLanterns[0].ActivationCount)
	require.Len(t, stats.LanternsNeedingRenovation, 1)
	require.NotNil(t, stats.LanternsNeedingRenovation[0].LastRenovationDate)
	assert.Equal(t, lastRenovated, *stats.LanternsNeedingRenovation[0].LastRenovationDate)
	require.Len(t, stats.PlannedRenovations, 1)
	assert.Equal(t, int64(9), stats.PlannedRenovations[0].LanternID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchStatisticsEmptyResults(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_top_activated_lanterns($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "activation_count"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_lanterns_needing_renovation($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_renovation_date"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_planned_renovations($1)")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lantern_id", "date"}))

	stats, err := FetchStatistics(db, 1)
	require.NoError(t, err)
	assert.NotNil(t, stats.TopActivatedLanterns)
	assert.Empty(t, stats.TopActivatedLanterns)
	assert.NotNil(t, stats.LanternsNeedingRenovation)
	assert.NotNil(t, stats.PlannedRenovations)
}
