package services

import (
	"encoding/json"
	"log"
	"time"

	"smartlighting-backend-go/internal/models"

	"github.com/jmoiron/sqlx"
)

type ExportInfo struct {
	Timestamp    time.Time `json:"timestamp"`
	ExportedBy   string    `json:"exported_by"`
	Format       string    `json:"format"`
	TotalRecords int       `json:"total_records"`
}

type ExportData struct {
	Lanterns    []models.Lantern    `json:"lanterns"`
	Parks       []models.Park       `json:"parks"`
	Breakdowns  []models.Breakdown  `json:"breakdowns"`
	Renovations []models.Renovation `json:"renovations"`
	Repairmen   []models.Repairman  `json:"repairmen"`
	Companies   []models.Company    `json:"companies"`
	ExportInfo  ExportInfo          `json:"export_info"`
}

type BackupInfo struct {
	Timestamp    time.Time `json:"timestamp"`
	CreatedBy    string    `json:"created_by"`
	Version      string    `json:"version"`
	TotalRecords int       `json:"total_records"`
}

type BackupData struct {
	Admins      []models.Admin            `json:"admins"`
	Lanterns    []models.Lantern          `json:"lanterns"`
	Parks       []models.Park             `json:"parks"`
	Breakdowns  []models.Breakdown        `json:"breakdowns"`
	Renovations []models.Renovation       `json:"renovations"`
	Repairmen   []models.Repairman        `json:"repairmen"`
	Companies   []models.Company          `json:"companies"`
	Activities  []models.DatabaseActivity `json:"activities"`
	BackupInfo  BackupInfo                `json:"backup_info"`
}

// collectTable fills dest from a full-table select. A failing table
// degrades to an empty slice so one broken relation does not sink the
// whole export.
func collectTable[T any](db *sqlx.DB, table string) []T {
	rows := []T{}
	if err := db.Select(&rows, `SELECT * FROM `+table+` ORDER BY id`); err != nil {
		log.Printf("export: loading %s failed: %v", table, err)
		return []T{}
	}
	return rows
}

// BuildExport assembles the full-table JSON export document. Per-table
// failures degrade to empty lists; export_info.timestamp is always set.
func BuildExport(db *sqlx.DB, exportedBy, format string) ExportData {
	data := ExportData{
		Lanterns:    collectTable[models.Lantern](db, "lanterns"),
		Parks:       collectTable[models.Park](db, "parks"),
		Breakdowns:  collectTable[models.Breakdown](db, "breakdowns"),
		Renovations: collectTable[models.Renovation](db, "renovations"),
		Repairmen:   collectTable[models.Repairman](db, "repairmen"),
		Companies:   collectTable[models.Company](db, "companies"),
	}
	data.ExportInfo = ExportInfo{
		Timestamp:  time.Now().UTC(),
		ExportedBy: exportedBy,
		Format:     format,
		TotalRecords: len(data.Lanterns) + len(data.Parks) + len(data.Breakdowns) +
			len(data.Renovations) + len(data.Repairmen) + len(data.Companies),
	}
	return data
}

// BuildBackup is the export plus admins (credentials excluded via the
// model's json tags) and the audit trail.
func BuildBackup(db *sqlx.DB, createdBy string) BackupData {
	data := BackupData{
		Admins:      collectTable[models.Admin](db, "admins"),
		Lanterns:    collectTable[models.Lantern](db, "lanterns"),
		Parks:       collectTable[models.Park](db, "parks"),
		Breakdowns:  collectTable[models.Breakdown](db, "breakdowns"),
		Renovations: collectTable[models.Renovation](db, "renovations"),
		Repairmen:   collectTable[models.Repairman](db, "repairmen"),
		Companies:   collectTable[models.Company](db, "companies"),
		Activities:  collectTable[models.DatabaseActivity](db, "database_activities"),
	}
	data.BackupInfo = BackupInfo{
		Timestamp: time.Now().UTC(),
		CreatedBy: createdBy,
		Version:   "1.0",
		TotalRecords: len(data.Admins) + len(data.Lanterns) + len(data.Parks) +
			len(data.Breakdowns) + len(data.Renovations) + len(data.Repairmen) + len(data.Companies),
	}
	return data
}

type ImportCounts struct {
	Lanterns    int `json:"lanterns"`
	Parks       int `json:"parks"`
	Breakdowns  int `json:"breakdowns"`
	Renovations int `json:"renovations"`
	Repairmen   int `json:"repairmen"`
	Companies   int `json:"companies"`
}

type importDocument struct {
	Data *importTables `json:"data"`
	importTables
}

type importTables struct {
	Lanterns    []models.Lantern    `json:"lanterns"`
	Parks       []models.Park       `json:"parks"`
	Breakdowns  []models.Breakdown  `json:"breakdowns"`
	Renovations []models.Renovation `json:"renovations"`
	Repairmen   []models.Repairman  `json:"repairmen"`
	Companies   []models.Company    `json:"companies"`
}

// ImportData loads a previously exported document. Rows are inserted
// only when their id is absent; a bad row skips itself and nothing
// else. There is no batch transaction: whatever imported before a crash
// stays imported.
func ImportData(db *sqlx.DB, raw []byte) (ImportCounts, error) {
	var doc importDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ImportCounts{}, ErrBadRequest("Invalid JSON document")
	}
	tables := doc.importTables
	if doc.Data != nil {
		tables = *doc.Data
	}

	counts := ImportCounts{}
	// Parks and companies first: other tables reference them.
	for _, park := range tables.Parks {
		if importRow(db, "parks", park.ID, `
INSERT INTO parks (id, name, address, latitude, longitude, created_at)
VALUES ($1,$2,$3,$4,$5,now())
`, park.ID, park.Name, park.Address, park.Latitude, park.Longitude) {
			counts.Parks++
		}
	}
	for _, company := range tables.Companies {
		if importRow(db, "companies", company.ID, `
INSERT INTO companies (id, name, address, phone, email, notes)
VALUES ($1,$2,$3,$4,$5,$6)
`, company.ID, company.Name, company.Address, company.Phone, company.Email, company.Notes) {
			counts.Companies++
		}
	}
	for _, repairman := range tables.Repairmen {
		if importRow(db, "repairmen", repairman.ID, `
INSERT INTO repairmen (id, first_name, surname, email, phone, specialization, company_id)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, repairman.ID, repairman.FirstName, repairman.Surname, repairman.Email,
			repairman.Phone, repairman.Specialization, repairman.CompanyID) {
			counts.Repairmen++
		}
	}
	for _, lantern := range tables.Lanterns {
		if importRow(db, "lanterns", lantern.ID, `
INSERT INTO lanterns (id, name, brand, model, power, height, base_brightness, active_brightness,
  active_time, status, latitude, longitude, park_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,now())
`, lantern.ID, lantern.Name, lantern.Brand, lantern.Model, lantern.Power, lantern.Height,
			lantern.BaseBrightness, lantern.ActiveBrightness, lantern.ActiveTime, lantern.Status,
			lantern.Latitude, lantern.Longitude, lantern.ParkID) {
			counts.Lanterns++
		}
	}
	for _, breakdown := range tables.Breakdowns {
		reportedAt := breakdown.ReportedAt
		if reportedAt.IsZero() {
			reportedAt = time.Now().UTC()
		}
		if importRow(db, "breakdowns", breakdown.ID, `
INSERT INTO breakdowns (id, lantern_id, description, status, priority, reported_at, fixed_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
`, breakdown.ID, breakdown.LanternID, breakdown.Description, breakdown.Status,
			breakdown.Priority, reportedAt, breakdown.FixedAt) {
			counts.Breakdowns++
		}
	}
	for _, renovation := range tables.Renovations {
		if importRow(db, "renovations", renovation.ID, `
INSERT INTO renovations (id, lantern_id, repairman_id, description, status, priority, cost, start_date, end_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, renovation.ID, renovation.LanternID, renovation.RepairmanID, renovation.Description,
			renovation.Status, renovation.Priority, renovation.Cost, renovation.StartDate, renovation.EndDate) {
			counts.Renovations++
		}
	}
	syncSequences(db)
	return counts, nil
}

// syncSequences moves each table's id sequence past the highest imported
// id, otherwise the next plain insert collides with an imported row.
func syncSequences(db *sqlx.DB) {
	for _, table := range []string{"parks", "companies", "repairmen", "lanterns", "breakdowns", "renovations"} {
		if _, err := db.Exec(
			`SELECT setval(pg_get_serial_sequence('` + table + `', 'id'), COALESCE(MAX(id), 1)) FROM ` + table); err != nil {
			log.Printf("import: syncing %s id sequence failed: %v", table, err)
		}
	}
}

// importRow inserts one row unless its id already exists. Errors are
// isolated to the row and logged.
func importRow(db *sqlx.DB, table string, id int64, query string, args ...interface{}) bool {
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id); err != nil {
		log.Printf("import: existence check for %s #%d failed: %v", table, id, err)
		return false
	}
	if exists {
		return false
	}
	if _, err := db.Exec(query, args...); err != nil {
		log.Printf("import: inserting %s #%d failed: %v", table, id, err)
		return false
	}
	return true
}
