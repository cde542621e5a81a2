package httpapi

import (
	"encoding/json"
	"net/http"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type BreakdownCreateRequest struct {
	LanternID    int64   `json:"lantern_id"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	ReportedDate *string `json:"reported_date"`
	ReportedTime *string `json:"reported_time"`
}

func validBreakdownStatus(status string) bool {
	return status == "reported" || status == "in_progress" || status == "fixed"
}

func (s *Server) AddBreakdown(w http.ResponseWriter, r *http.Request) {
	var req BreakdownCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.LanternID <= 0 {
		WriteError(w, http.StatusBadRequest, "lantern_id is required")
		return
	}
	if !s.exists("lanterns", req.LanternID) {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	status := "reported"
	if req.Status != nil {
		if !validBreakdownStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: reported, in_progress, fixed")
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
	reportedAt := nowUTC()
	if req.ReportedDate != nil {
		parsed, err := combineDateTime(*req.ReportedDate, req.ReportedTime)
		if mapServiceError(w, err) {
			return
		}
		reportedAt = parsed
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO breakdowns (lantern_id, description, status, priority, reported_at)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, req.LanternID, req.Description, status, priority, reportedAt)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityBreakdownCreated, "breakdown", &id, CurrentAdmin(r).Email, nil)
	breakdown := models.Breakdown{}
	if err := s.DB.Get(&breakdown, `SELECT * FROM breakdowns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, breakdown)
}

func (s *Server) ListBreakdowns(w http.ResponseWriter, r *http.Request) {
	breakdowns := []models.Breakdown{}
	if err := s.DB.Select(&breakdowns, `SELECT * FROM breakdowns ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, breakdowns)
}

func (s *Server) BreakdownInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "breakdownID"))
	if mapServiceError(w, err) {
		return
	}
	breakdown := models.Breakdown{}
	if err := s.DB.Get(&breakdown, `SELECT * FROM breakdowns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Breakdown not found")
		return
	}
	WriteJSON(w, http.StatusOK, breakdown)
}

type BreakdownUpdateRequest struct {
	LanternID   *int64         `json:"lantern_id"`
	Description OptionalString `json:"description"`
	Status      *string        `json:"status"`
	Priority    *string        `json:"priority"`
	FixedDate   *string        `json:"fixed_date"`
	FixedTime   *string        `json:"fixed_time"`
}

func (s *Server) UpdateBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "breakdownID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Breakdown{}
	if err := s.DB.Get(&current, `SELECT * FROM breakdowns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Breakdown not found")
		return
	}
	var req BreakdownUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	fixed := false
	if req.LanternID != nil {
		if !s.exists("lanterns", *req.LanternID) {
			WriteError(w, http.StatusNotFound, "Lantern not found")
			return
		}
		b.set("lantern_id", *req.LanternID)
		changes = append(changes, services.FieldChange{Field: "lantern_id", Old: current.LanternID, New: *req.LanternID})
	}
	if req.Description.Set {
		b.set("description", req.Description.arg())
		changes = append(changes, services.FieldChange{Field: "description", Old: current.Description, New: req.Description.arg()})
	}
	if req.Status != nil {
		if !validBreakdownStatus(*req.Status) {
			WriteError(w, http.StatusBadRequest, "Status must be one of: reported, in_progress, fixed")
			return
		}
		b.set("status", *req.Status)
		changes = append(changes, services.FieldChange{Field: "status", Old: current.Status, New: *req.Status})
		if *req.Status == "fixed" && current.Status != "fixed" {
			fixed = true
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
	if req.FixedDate != nil {
		fixedAt, err := combineDateTime(*req.FixedDate, req.FixedTime)
		if mapServiceError(w, err) {
			return
		}
		b.set("fixed_at", fixedAt)
		changes = append(changes, services.FieldChange{Field: "fixed_at", Old: current.FixedAt, New: fixedAt})
	} else if fixed {
		fixedAt := nowUTC()
		b.set("fixed_at", fixedAt)
		changes = append(changes, services.FieldChange{Field: "fixed_at", Old: current.FixedAt, New: fixedAt})
	}
	if !b.empty() {
		query, args, _ := b.query("breakdowns", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		activity := services.ActivityBreakdownUpdated
		if fixed {
			activity = services.ActivityBreakdownFixed
		}
		services.RecordActivity(s.DB, activity, "breakdown", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Breakdown{}
	if err := s.DB.Get(&updated, `SELECT * FROM breakdowns WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "breakdownID"))
	if mapServiceError(w, err) {
		return
	}
	breakdown := models.Breakdown{}
	if err := s.DB.Get(&breakdown, `DELETE FROM breakdowns WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Breakdown not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityBreakdownDeleted, "breakdown", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, breakdown)
}
