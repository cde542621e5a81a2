package services

import (
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeActivity(t *testing.T) {
	id := int64(12)
	cases := []struct {
		activityType string
		entityType   string
		entityID     *int64
		want         string
	}{
		{ActivityLanternCreated, "lantern", &id, "Created lantern #12"},
		{ActivityParkUpdated, "park", &id, "Updated park #12"},
		{ActivityUserDeleted, "admin", &id, "Deleted admin #12"},
		{ActivityBreakdownFixed, "breakdown", &id, "Fixed breakdown #12"},
		{ActivityRenovationCompleted, "renovation", &id, "Completed renovation #12"},
		{ActivityDataExport, "system", nil, "Exported system data"},
		{ActivityDataImport, "system", nil, "Imported system data"},
		{ActivityBackupCreated, "system", nil, "Created full system backup"},
		{ActivityLanternCreated, "lantern", nil, "Created lantern"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, describeActivity(tc.activityType, tc.entityType, tc.entityID))
	}
}

func TestRecordActivityInsertsDiff(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	id := int64(7)
	mock.ExpectExec(regexp.QuoteMeta(
		"INSERT INTO database_activities (activity_type, entity_type, entity_id, description, details, performed_by, created_at)")).
		WithArgs(ActivityLanternUpdated, "lantern", int64(7), "Updated lantern #7",
			`[{"field":"status","old":"working","new":"off"}]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	RecordActivity(db, ActivityLanternUpdated, "lantern", &id, "admin@example.com",
		[]FieldChange{{Field: "status", Old: "working", New: "off"}})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordActivityToleratesFailure(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	db := sqlx.NewDb(mockDB, "sqlmock")

	mock.ExpectExec("INSERT INTO database_activities").
		WillReturnError(assert.AnError)

	// Must not panic or propagate the failure.
	RecordActivity(db, ActivityDataExport, "system", nil, "admin@example.com", nil)
	assert.NoError(t, mock.ExpectationsWereMet())
}
