package httpapi

import (
	"encoding/json"
	"net/http"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type LanternCreateRequest struct {
	Name             *string  `json:"name"`
	Brand            *string  `json:"brand"`
	Model            *string  `json:"model"`
	Power            *int     `json:"power"`
	Height           *float64 `json:"height"`
	BaseBrightness   *int     `json:"base_brightness"`
	ActiveBrightness *int     `json:"active_brightness"`
	ActiveTime       *int     `json:"active_time"`
	Status           *string  `json:"status"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	ParkID           *int64   `json:"park_id"`
}

func validLanternStatus(status string) bool {
	return status == "working" || status == "maintenance" || status == "off"
}

func validBrightness(value int) bool {
	return value >= 0 && value <= 100
}

func (s *Server) AddLantern(w http.ResponseWriter, r *http.Request) {
	var req LanternCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	status := "working"
	if req.Status != nil {
		if !validLanternStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: working, maintenance, off")
			return
		}
		status = *req.Status
	}
	baseBrightness := 50
	if req.BaseBrightness != nil {
		if !validBrightness(*req.BaseBrightness) {
			WriteError(w, http.StatusBadRequest, "base_brightness must be between 0 and 100")
			return
		}
		baseBrightness = *req.BaseBrightness
	}
	activeBrightness := 100
	if req.ActiveBrightness != nil {
		if !validBrightness(*req.ActiveBrightness) {
			WriteError(w, http.StatusBadRequest, "active_brightness must be between 0 and 100")
			return
		}
		activeBrightness = *req.ActiveBrightness
	}
	activeTime := 30
	if req.ActiveTime != nil {
		if *req.ActiveTime < 0 {
			WriteError(w, http.StatusBadRequest, "active_time must not be negative")
			return
		}
		activeTime = *req.ActiveTime
	}
	var parkID *int64
	if req.ParkID != nil && *req.ParkID != 0 {
		if !s.exists("parks", *req.ParkID) {
			WriteError(w, http.StatusNotFound, "Park not found")
			return
		}
		parkID = req.ParkID
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO lanterns (name, brand, model, power, height, base_brightness, active_brightness,
  active_time, status, latitude, longitude, park_id, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,now())
RETURNING id
`, req.Name, req.Brand, req.Model, req.Power, req.Height, baseBrightness, activeBrightness,
		activeTime, status, req.Latitude, req.Longitude, parkID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityLanternCreated, "lantern", &id, CurrentAdmin(r).Email, nil)
	lantern := models.Lantern{}
	if err := s.DB.Get(&lantern, `SELECT * FROM lanterns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, lantern)
}

func (s *Server) ListLanterns(w http.ResponseWriter, r *http.Request) {
	lanterns := []models.Lantern{}
	if err := s.DB.Select(&lanterns, `SELECT * FROM lanterns ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, lanterns)
}

func (s *Server) LanternInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	lantern := models.Lantern{}
	if err := s.DB.Get(&lantern, `SELECT * FROM lanterns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	WriteJSON(w, http.StatusOK, lantern)
}

type LanternUpdateRequest struct {
	Name             OptionalString `json:"name"`
	Brand            OptionalString `json:"brand"`
	Model            OptionalString `json:"model"`
	Power            OptionalInt    `json:"power"`
	Height           OptionalFloat  `json:"height"`
	BaseBrightness   *int           `json:"base_brightness"`
	ActiveBrightness *int           `json:"active_brightness"`
	ActiveTime       *int           `json:"active_time"`
	Status           *string        `json:"status"`
	Latitude         OptionalFloat  `json:"latitude"`
	Longitude        OptionalFloat  `json:"longitude"`
	ParkID           OptionalInt64  `json:"park_id"`
}

func (s *Server) UpdateLantern(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Lantern{}
	if err := s.DB.Get(&current, `SELECT * FROM lanterns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	var req LanternUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	if req.Name.Set {
		b.set("name", req.Name.arg())
		changes = append(changes, services.FieldChange{Field: "name", Old: current.Name, New: req.Name.arg()})
	}
	if req.Brand.Set {
		b.set("brand", req.Brand.arg())
		changes = append(changes, services.FieldChange{Field: "brand", Old: current.Brand, New: req.Brand.arg()})
	}
	if req.Model.Set {
		b.set("model", req.Model.arg())
		changes = append(changes, services.FieldChange{Field: "model", Old: current.Model, New: req.Model.arg()})
	}
	if req.Power.Set {
		b.set("power", req.Power.arg())
		changes = append(changes, services.FieldChange{Field: "power", Old: current.Power, New: req.Power.arg()})
	}
	if req.Height.Set {
		b.set("height", req.Height.arg())
		changes = append(changes, services.FieldChange{Field: "height", Old: current.Height, New: req.Height.arg()})
	}
	if req.BaseBrightness != nil {
		if !validBrightness(*req.BaseBrightness) {
			WriteError(w, http.StatusBadRequest, "base_brightness must be between 0 and 100")
			return
		}
		b.set("base_brightness", *req.BaseBrightness)
		changes = append(changes, services.FieldChange{Field: "base_brightness", Old: current.BaseBrightness, New: *req.BaseBrightness})
	}
	if req.ActiveBrightness != nil {
		if !validBrightness(*req.ActiveBrightness) {
			WriteError(w, http.StatusBadRequest, "active_brightness must be between 0 and 100")
			return
		}
		b.set("active_brightness", *req.ActiveBrightness)
		changes = append(changes, services.FieldChange{Field: "active_brightness", Old: current.ActiveBrightness, New: *req.ActiveBrightness})
	}
	if req.ActiveTime != nil {
		if *req.ActiveTime < 0 {
			WriteError(w, http.StatusBadRequest, "active_time must not be negative")
			return
		}
		b.set("active_time", *req.ActiveTime)
		changes = append(changes, services.FieldChange{Field: "active_time", Old: current.ActiveTime, New: *req.ActiveTime})
	}
	if req.Status != nil {
		if !validLanternStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: working, maintenance, off")
			return
		}
		b.set("status", *req.Status)
		changes = append(changes, services.FieldChange{Field: "status", Old: current.Status, New: *req.Status})
	}
	if req.Latitude.Set {
		b.set("latitude", req.Latitude.arg())
		changes = append(changes, services.FieldChange{Field: "latitude", Old: current.Latitude, New: req.Latitude.arg()})
	}
	if req.Longitude.Set {
		b.set("longitude", req.Longitude.arg())
		changes = append(changes, services.FieldChange{Field: "longitude", Old: current.Longitude, New: req.Longitude.arg()})
	}
	if req.ParkID.Set {
		if req.ParkID.Null || req.ParkID.Value == 0 {
			b.set("park_id", nil)
			changes = append(changes, services.FieldChange{Field: "park_id", Old: current.ParkID, New: nil})
		} else {
			if !s.exists("parks", req.ParkID.Value) {
				WriteError(w, http.StatusNotFound, "Park not found")
				return
			}
			b.set("park_id", req.ParkID.Value)
			changes = append(changes, services.FieldChange{Field: "park_id", Old: current.ParkID, New: req.ParkID.Value})
		}
	}
	if !b.empty() {
		b.set("updated_at", nowUTC())
		query, args, _ := b.query("lanterns", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityLanternUpdated, "lantern", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Lantern{}
	if err := s.DB.Get(&updated, `SELECT * FROM lanterns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteLantern(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	lantern := models.Lantern{}
	if err := s.DB.Get(&lantern, `DELETE FROM lanterns WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityLanternDeleted, "lantern", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, lantern)
}
