package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Activity types recorded in database_activities.activity_type.
const (
	ActivityLanternCreated      = "lantern_created"
	ActivityLanternUpdated      = "lantern_updated"
	ActivityLanternDeleted      = "lantern_deleted"
	ActivityParkCreated         = "park_created"
	ActivityParkUpdated         = "park_updated"
	ActivityParkDeleted         = "park_deleted"
	ActivityBreakdownCreated    = "breakdown_created"
	ActivityBreakdownUpdated    = "breakdown_updated"
	ActivityBreakdownFixed      = "breakdown_fixed"
	ActivityBreakdownDeleted    = "breakdown_deleted"
	ActivityRenovationCreated   = "renovation_created"
	ActivityRenovationUpdated   = "renovation_updated"
	ActivityRenovationCompleted = "renovation_completed"
	ActivityRenovationDeleted   = "renovation_deleted"
	ActivityRepairmanCreated    = "repairman_created"
	ActivityRepairmanUpdated    = "repairman_updated"
	ActivityRepairmanDeleted    = "repairman_deleted"
	ActivityCompanyCreated      = "company_created"
	ActivityCompanyUpdated      = "company_updated"
	ActivityCompanyDeleted      = "company_deleted"
	ActivityUserCreated         = "user_created"
	ActivityUserUpdated         = "user_updated"
	ActivityUserDeleted         = "user_deleted"
	ActivitySystemUpdate        = "system_update"
	ActivityDataExport          = "data_export"
	ActivityDataImport          = "data_import"
	ActivityBackupCreated       = "backup_created"
)

// FieldChange is one entry of the structured diff stored in the details
// column. Descriptions are derived from these at read/render time, not
// hand-built at every mutation site.
type FieldChange struct {
	Field string      `json:"field"`
	Old   interface{} `json:"old,omitempty"`
	New   interface{} `json:"new"`
}

// RecordActivity appends an audit row. It is best-effort: a failure is
// logged as a warning and never rolls back the primary write.
func RecordActivity(db *sqlx.DB, activityType, entityType string, entityID *int64, performedBy string, changes []FieldChange) {
	var details *string
	if len(changes) > 0 {
		encoded, err := json.Marshal(changes)
		if err == nil {
			value := string(encoded)
			details = &value
		}
	}
	description := describeActivity(activityType, entityType, entityID)
	var actor *string
	if performedBy != "" {
		actor = &performedBy
	}
	_, err := db.Exec(`
INSERT INTO database_activities (activity_type, entity_type, entity_id, description, details, performed_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, activityType, entityType, entityID, description, details, actor, time.Now().UTC())
	if err != nil {
		log.Printf("warning: audit insert failed (%s %s): %v", activityType, entityType, err)
	}
}

func describeActivity(activityType, entityType string, entityID *int64) string {
	// Exact matches first: backup_created would otherwise hit the
	// "_created" suffix case.
	switch activityType {
	case ActivityDataExport:
		return "Exported system data"
	case ActivityDataImport:
		return "Imported system data"
	case ActivityBackupCreated:
		return "Created full system backup"
	}
	verb := "Recorded"
	switch {
	case strings.HasSuffix(activityType, "_created"):
		verb = "Created"
	case strings.HasSuffix(activityType, "_updated"):
		verb = "Updated"
	case strings.HasSuffix(activityType, "_deleted"):
		verb = "Deleted"
	case strings.HasSuffix(activityType, "_fixed"):
		verb = "Fixed"
	case strings.HasSuffix(activityType, "_completed"):
		verb = "Completed"
	}
	if entityID != nil {
		return fmt.Sprintf("%s %s #%d", verb, entityType, *entityID)
	}
	return fmt.Sprintf("%s %s", verb, entityType)
}
