package httpapi

import (
	"encoding/json"
	"net/http"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type RenovationCreateRequest struct {
	LanternID   *int64  `json:"lantern_id"`
	RepairmanID *int64  `json:"repairman_id"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	Cost        *int64  `json:"cost"`
	StartDate   *string `json:"start_date"`
	StartTime   *string `json:"start_time"`
	EndDate     *string `json:"end_date"`
	EndTime     *string `json:"end_time"`
}

func validRenovationStatus(status string) bool {
	switch status {
	case "planned", "completed", "deferred", "canceled":
		return true
	}
	return false
}

func (s *Server) AddRenovation(w http.ResponseWriter, r *http.Request) {
	var req RenovationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.LanternID != nil && !s.exists("lanterns", *req.LanternID) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	if req.RepairmanID != nil && !s.exists("repairmen", *req.RepairmanID) {
		WriteError(w, http.StatusNotFound, "Repairman not found")
		return
	}
	status := "planned"
	if req.Status != nil {
		if !validRenovationStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: planned, completed, deferred, canceled")
			return
		}
		status = *req.Status
	}
	priority := "medium"
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			WriteError(w, http.StatusBadRequest, "Priority must be one of: low, medium, high, critical")
			return
		}
		priority = *req.Priority
	}
	cost := int64(0)
	if req.Cost != nil {
		if *req.Cost < 0 {
			WriteError(w, http.StatusBadRequest, "Cost must not be negative")
			return
		}
		cost = *req.Cost
	}
	var startDate, endDate interface{}
	if req.StartDate != nil {
		parsed, err := combineDateTime(*req.StartDate, req.StartTime)
		if mapServiceError(w, err) {
			return
		}
		startDate = parsed
	}
	if req.EndDate != nil {
		parsed, err := combineDateTime(*req.EndDate, req.EndTime)
		if mapServiceError(w, err) {
			return
		}
		endDate = parsed
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO renovations (lantern_id, repairman_id, description, status, priority, cost, start_date, end_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id
`, req.LanternID, req.RepairmanID, req.Description, status, priority, cost, startDate, endDate)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityRenovationCreated, "renovation", &id, CurrentAdmin(r).Email, nil)
	renovation := models.Renovation{}
	if err := s.DB.Get(&renovation, `SELECT * FROM renovations WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, renovation)
}

func (s *Server) ListRenovations(w http.ResponseWriter, r *http.Request) {
	renovations := []models.Renovation{}
	if err := s.DB.Select(&renovations, `SELECT * FROM renovations ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, renovations)
}

func (s *Server) RenovationInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "renovationID"))
	if mapServiceError(w, err) {
		return
	}
	renovation := models.Renovation{}
	if err := s.DB.Get(&renovation, `SELECT * FROM renovations WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Renovation not found")
		return
	}
	WriteJSON(w, http.StatusOK, renovation)
}

type RenovationUpdateRequest struct {
	LanternID   OptionalInt64  `json:"lantern_id"`
	RepairmanID OptionalInt64  `json:"repairman_id"`
	Description OptionalString `json:"description"`
	Status      *string        `json:"status"`
	Priority    *string        `json:"priority"`
	Cost        *int64         `json:"cost"`
	StartDate   *string        `json:"start_date"`
	StartTime   *string        `json:"start_time"`
	EndDate     *string        `json:"end_date"`
	EndTime     *string        `json:"end_time"`
}

func (s *Server) UpdateRenovation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "renovationID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Renovation{}
	if err := s.DB.Get(&current, `SELECT * FROM renovations WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Renovation not found")
		return
	}
	var req RenovationUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	completed := false
	if req.LanternID.Set {
		if req.LanternID.Null || req.LanternID.Value == 0 {
			b.set("lantern_id", nil)
			changes = append(changes, services.FieldChange{Field: "lantern_id", Old: current.LanternID, New: nil})
		} else {
			if !s.exists("lanterns", req.LanternID.Value) {
				WriteError(w, http.StatusNotFound, "Lantern not found")
				return
			}
			b.set("lantern_id", req.LanternID.Value)
			changes = append(changes, services.FieldChange{Field: "lantern_id", Old: current.LanternID, New: req.LanternID.Value})
		}
	}
	if req.RepairmanID.Set {
		if req.RepairmanID.Null || req.RepairmanID.Value == 0 {
			b.set("repairman_id", nil)
			changes = append(changes, services.FieldChange{Field: "repairman_id", Old: current.RepairmanID, New: nil})
		} else {
			if !s.exists("repairmen", req.RepairmanID.Value) {
				WriteError(w, http.StatusNotFound, "Repairman not found")
				return
			}
			b.set("repairman_id", req.RepairmanID.Value)
			changes = append(changes, services.FieldChange{Field: "repairman_id", Old: current.RepairmanID, New: req.RepairmanID.Value})
		}
	}
	if req.Description.Set {
		b.set("description", req.Description.arg())
		changes = append(changes, services.FieldChange{Field: "description", Old: current.Description, New: req.Description.arg()})
	}
	if req.Status != nil {
		if !validRenovationStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: planned, completed, deferred, canceled")
			return
		}
		b.set("status", *req.Status)
		changes = append(changes, services.FieldChange{Field: "status", Old: current.Status, New: *req.Status})
		if *req.Status == "completed" && current.Status != "completed" {
			completed = true
		}
	}
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			WriteError(w, http.StatusBadRequest, "Priority must be one of: low, medium, high, critical")
			return
		}
		b.set("priority", *req.Priority)
		changes = append(changes, services.FieldChange{Field: "priority", Old: current.Priority, New: *req.Priority})
	}
	if req.Cost != nil {
		if *req.Cost < 0 {
			WriteError(w, http.StatusBadRequest, "Cost must not be negative")
			return
		}
		b.set("cost", *req.Cost)
		changes = append(changes, services.FieldChange{Field: "cost", Old: current.Cost, New: *req.Cost})
	}
	if req.StartDate != nil {
		startDate, err := combineDateTime(*req.StartDate, req.StartTime)
		if mapServiceError(w, err) {
			return
		}
		b.set("start_date", startDate)
		changes = append(changes, services.FieldChange{Field: "start_date", Old: current.StartDate, New: startDate})
	}
	if req.EndDate != nil {
		endDate, err := combineDateTime(*req.EndDate, req.EndTime)
		if mapServiceError(w, err) {
			return
		}
		b.set("end_date", endDate)
		changes = append(changes, services.FieldChange{Field: "end_date", Old: current.EndDate, New: endDate})
	}
	if !b.empty() {
		query, args, _ := b.query("renovations", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		activity := services.ActivityRenovationUpdated
		if completed {
			activity = services.ActivityRenovationCompleted
		}
		services.RecordActivity(s.DB, activity, "renovation", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Renovation{}
	if err := s.DB.Get(&updated, `SELECT * FROM renovations WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteRenovation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "renovationID"))
	if mapServiceError(w, err) {
		return
	}
	renovation := models.Renovation{}
	if err := s.DB.Get(&renovation, `DELETE FROM renovations WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Renovation not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityRenovationDeleted, "renovation", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, renovation)
}
