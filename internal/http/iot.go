package httpapi

import (
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

// The /iot routes are called by the lantern controllers themselves.
// They carry no credentials; the devices sit on a closed network.

type IotSettingsResponse struct {
	BaseBrightness   int `db:"base_brightness" json:"base_brightness"`
	ActiveBrightness int `db:"active_brightness" json:"active_brightness"`
	ActiveTime       int `db:"active_time" json:"active_time"`
}

func (s *Server) IotSettings(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	row := IotSettingsResponse{}
	if err := s.DB.Get(&row, `
SELECT base_brightness, active_brightness, active_time
FROM lanterns WHERE id = $1
`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	WriteJSON(w, http.StatusOK, row)
}

func (s *Server) IotMotion(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	if !s.exists("lanterns", id) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	if _, err := s.DB.Exec(`
INSERT INTO sensor_responses (lantern_id, recorded_at) VALUES ($1, now())
`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// IotFault files a breakdown reported by the device itself. The error
// type and measured value arrive as query parameters and are folded
// into the breakdown description.
func (s *Server) IotFault(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	if !s.exists("lanterns", id) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	errorType := strings.TrimSpace(r.URL.Query().Get("error_type"))
	value := strings.TrimSpace(r.URL.Query().Get("value"))
	if errorType == "" {
		WriteError(w, http.StatusBadRequest, "error_type is required")
		return
	}
	description := errorType + "; " + value
	var breakdownID int64
	if err := s.DB.Get(&breakdownID, `
INSERT INTO breakdowns (lantern_id, description, status, priority, reported_at)
VALUES ($1,$2,'reported','medium',now())
RETURNING id
`, id, description); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityBreakdownCreated, "breakdown", &breakdownID, "iot", nil)
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status":       "reported",
		"breakdown_id": breakdownID,
	})
}

// IotReboot acknowledges the command without a device protocol behind
// it; the controller polls settings and reboots on its own schedule.
func (s *Server) IotReboot(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	if !s.exists("lanterns", id) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "reboot_requested"})
}

func (s *Server) IotStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	if !s.exists("lanterns", id) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "online",
		"voltage": 3.3,
	})
}
