package services

import (
	"time"

	"github.com/jmoiron/sqlx"
)

type ActivatedLantern struct {
	ID              int64 `db:"id" json:"id"`
	ActivationCount int64 `db:"activation_count" json:"activation_count"`
}

type LanternNeedingRenovation struct {
	ID                 int64      `db:"id" json:"id"`
	LastRenovationDate *time.Time `db:"last_renovation_date" json:"last_renovation_date"`
}

type PlannedRenovation struct {
	ID        int64     `db:"id" json:"id"`
	LanternID int64     `db:"lantern_id" json:"lantern_id"`
	Date      time.Time `db:"date" json:"date"`
}

type ParkStatistics struct {
	TopActivatedLanterns      []ActivatedLantern         `json:"top_activated_lanterns"`
	LanternsNeedingRenovation []LanternNeedingRenovation `json:"lanterns_needing_renovation"`
	PlannedRenovations        []PlannedRenovation        `json:"planned_renovations"`
}

// FetchStatistics validates the park and forwards park_id to the three
// aggregate functions maintained in the database. Their ranking and
// threshold logic lives entirely in SQL; this layer only reshapes the
// returned tuples.
func FetchStatistics(db *sqlx.DB, parkID int64) (ParkStatistics, error) {
	var exists bool
	if err := db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)`, parkID); err != nil {
		return ParkStatistics{}, err
	}
	if !exists {
		return ParkStatistics{}, ErrNotFound("Park not found")
	}

	stats := ParkStatistics{
		TopActivatedLanterns:      []ActivatedLantern{},
		LanternsNeedingRenovation: []LanternNeedingRenovation{},
		PlannedRenovations:        []PlannedRenovation{},
	}
	if err := db.Select(&stats.TopActivatedLanterns,
		`SELECT * FROM get_top_activated_lanterns($1)`, parkID); err != nil {
		return ParkStatistics{}, err
	}
	if err := db.Select(&stats.LanternsNeedingRenovation,
		`SELECT * FROM get_lanterns_needing_renovation($1)`, parkID); err != nil {
		return ParkStatistics{}, err
	}
	if err := db.Select(&stats.PlannedRenovations,
		`SELECT * FROM get_planned_renovations($1)`, parkID); err != nil {
		return ParkStatistics{}, err
	}
	return stats, nil
}
