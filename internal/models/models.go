package models

import "time"

type Admin struct {
	ID           int64      `db:"id" json:"id"`
	FirstName    string     `db:"first_name" json:"first_name"`
	Surname      string     `db:"surname" json:"surname"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Status       string     `db:"status" json:"status"`
	Rights       string     `db:"rights" json:"rights"`
	ParkID       *int64     `db:"park_id" json:"park_id"`
	CreatedAt    *time.Time `db:"created_at" json:"created_at,omitempty"`
}

type Park struct {
	ID        int64      `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Address   string     `db:"address" json:"address"`
	Latitude  *float64   `db:"latitude" json:"latitude"`
	Longitude *float64   `db:"longitude" json:"longitude"`
	CreatedAt *time.Time `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

type Lantern struct {
	ID               int64      `db:"id" json:"id"`
	Name             *string    `db:"name" json:"name"`
	Brand            *string    `db:"brand" json:"brand"`
	Model            *string    `db:"model" json:"model"`
	Power            *int       `db:"power" json:"power"`
	Height           *float64   `db:"height" json:"height"`
	BaseBrightness   int        `db:"base_brightness" json:"base_brightness"`
	ActiveBrightness int        `db:"active_brightness" json:"active_brightness"`
	ActiveTime       int        `db:"active_time" json:"active_time"`
	Status           string     `db:"status" json:"status"`
	Latitude         *float64   `db:"latitude" json:"latitude"`
	Longitude        *float64   `db:"longitude" json:"longitude"`
	ParkID           *int64     `db:"park_id" json:"park_id"`
	CreatedAt        *time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at"`
}

type Breakdown struct {
	ID          int64      `db:"id" json:"id"`
	LanternID   int64      `db:"lantern_id" json:"lantern_id"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	ReportedAt  time.Time  `db:"reported_at" json:"reported_at"`
	FixedAt     *time.Time `db:"fixed_at" json:"fixed_at"`
}

type Renovation struct {
	ID          int64      `db:"id" json:"id"`
	LanternID   *int64     `db:"lantern_id" json:"lantern_id"`
	RepairmanID *int64     `db:"repairman_id" json:"repairman_id"`
	Description *string    `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Priority    string     `db:"priority" json:"priority"`
	Cost        int64      `db:"cost" json:"cost"`
	StartDate   *time.Time `db:"start_date" json:"start_date"`
	EndDate     *time.Time `db:"end_date" json:"end_date"`
}

type Repairman struct {
	ID             int64   `db:"id" json:"id"`
	FirstName      *string `db:"first_name" json:"first_name"`
	Surname        *string `db:"surname" json:"surname"`
	Email          string  `db:"email" json:"email"`
	Phone          *string `db:"phone" json:"phone"`
	Specialization *string `db:"specialization" json:"specialization"`
	CompanyID      *int64  `db:"company_id" json:"company_id"`
}

type Company struct {
	ID      int64   `db:"id" json:"id"`
	Name    *string `db:"name" json:"name"`
	Address *string `db:"address" json:"address"`
	Phone   *string `db:"phone" json:"phone"`
	Email   *string `db:"email" json:"email"`
	Notes   *string `db:"notes" json:"notes"`
}

// DatabaseActivity is the append-only audit row. It is only ever
// inserted; no code path updates or deletes one.
type DatabaseActivity struct {
	ID           int64     `db:"id" json:"id"`
	ActivityType string    `db:"activity_type" json:"activity_type"`
	EntityType   string    `db:"entity_type" json:"entity_type"`
	EntityID     *int64    `db:"entity_id" json:"entity_id"`
	Description  string    `db:"description" json:"description"`
	Details      *string   `db:"details" json:"details"`
	PerformedBy  *string   `db:"performed_by" json:"performed_by"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type Update struct {
	ID        int64      `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Content   string     `db:"content" json:"content"`
	Version   *string    `db:"version" json:"version"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at"`
}

type SensorResponse struct {
	ID         int64     `db:"id" json:"id"`
	LanternID  int64     `db:"lantern_id" json:"lantern_id"`
	RecordedAt time.Time `db:"recorded_at" json:"recorded_at"`
}

type UserMessage struct {
	ID            int64      `db:"id" json:"id"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	Location      *string    `db:"location" json:"location"`
	PhotoURL      *string    `db:"photo_url" json:"photo_url"`
	Priority      string     `db:"priority" json:"priority"`
	Status        string     `db:"status" json:"status"`
	DeviceToken   *string    `db:"device_token" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     *time.Time `db:"updated_at" json:"updated_at"`
	ResolvedAt    *time.Time `db:"resolved_at" json:"resolved_at"`
	AdminResponse *string    `db:"admin_response" json:"admin_response"`
	IsPublic      bool       `db:"is_public" json:"is_public"`
}

type ServerMetricSample struct {
	ID                string    `db:"id" json:"-"`
	CapturedAt        time.Time `db:"captured_at" json:"captured_at"`
	HeapUsedBytes     int64     `db:"heap_used_bytes" json:"heap_used_bytes"`
	SystemMemoryTotal int64     `db:"system_memory_total_bytes" json:"system_memory_total_bytes"`
	SystemMemoryUsed  int64     `db:"system_memory_used_bytes" json:"system_memory_used_bytes"`
	DiskTotalBytes    int64     `db:"disk_total_bytes" json:"disk_total_bytes"`
	DiskUsedBytes     int64     `db:"disk_used_bytes" json:"disk_used_bytes"`
	ProcessCpuLoad    float64   `db:"process_cpu_load" json:"process_cpu_load"`
	SystemCpuLoad     float64   `db:"system_cpu_load" json:"system_cpu_load"`
}
