package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type RepairmanCreateRequest struct {
	FirstName      *string `json:"first_name"`
	Surname        *string `json:"surname"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	Specialization *string `json:"specialization"`
	CompanyID      *int64  `json:"company_id"`
}

func (s *Server) AddRepairman(w http.ResponseWriter, r *http.Request) {
	var req RepairmanCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		WriteError(w, http.StatusBadRequest, "Email is required")
		return
	}
	var companyID *int64
	if req.CompanyID != nil && *req.CompanyID != 0 {
		if !s.exists("companies", *req.CompanyID) {
			WriteError(w, http.StatusNotFound, "Company not found")
			return
		}
		companyID = req.CompanyID
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO repairmen (first_name, surname, email, phone, specialization, company_id)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id
`, req.FirstName, req.Surname, email, req.Phone, req.Specialization, companyID)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "Repairman with this email already exists")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityRepairmanCreated, "repairman", &id, CurrentAdmin(r).Email, nil)
	repairman := models.Repairman{}
	if err := s.DB.Get(&repairman, `SELECT * FROM repairmen WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, repairman)
}

func (s *Server) ListRepairmen(w http.ResponseWriter, r *http.Request) {
	repairmen := []models.Repairman{}
	if err := s.DB.Select(&repairmen, `SELECT * FROM repairmen ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, repairmen)
}

func (s *Server) RepairmanInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "repairmanID"))
	if mapServiceError(w, err) {
		return
	}
	repairman := models.Repairman{}
	if err := s.DB.Get(&repairman, `SELECT * FROM repairmen WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Repairman not found")
		return
	}
	WriteJSON(w, http.StatusOK, repairman)
}

type RepairmanUpdateRequest struct {
	FirstName      OptionalString `json:"first_name"`
	Surname        OptionalString `json:"surname"`
	Email          *string        `json:"email"`
	Phone          OptionalString `json:"phone"`
	Specialization OptionalString `json:"specialization"`
	CompanyID      OptionalInt64  `json:"company_id"`
}

func (s *Server) UpdateRepairman(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "repairmanID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Repairman{}
	if err := s.DB.Get(&current, `SELECT * FROM repairmen WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Repairman not found")
		return
	}
	var req RepairmanUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	if req.FirstName.Set {
		b.set("first_name", req.FirstName.arg())
		changes = append(changes, services.FieldChange{Field: "first_name", Old: current.FirstName, New: req.FirstName.arg()})
	}
	if req.Surname.Set {
		b.set("surname", req.Surname.arg())
		changes = append(changes, services.FieldChange{Field: "surname", Old: current.Surname, New: req.Surname.arg()})
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			WriteError(w, http.StatusBadRequest, "Email must not be empty")
			return
		}
		b.set("email", email)
		changes = append(changes, services.FieldChange{Field: "email", Old: current.Email, New: email})
	}
	if req.Phone.Set {
		b.set("phone", req.Phone.arg())
		changes = append(changes, services.FieldChange{Field: "phone", Old: current.Phone, New: req.Phone.arg()})
	}
	if req.Specialization.Set {
		b.set("specialization", req.Specialization.arg())
		changes = append(changes, services.FieldChange{Field: "specialization", Old: current.Specialization, New: req.Specialization.arg()})
	}
	if req.CompanyID.Set {
		if req.CompanyID.Null || req.CompanyID.Value == 0 {
			b.set("company_id", nil)
			changes = append(changes, services.FieldChange{Field: "company_id", Old: current.CompanyID, New: nil})
		} else {
			if !s.exists("companies", req.CompanyID.Value) {
				WriteError(w, http.StatusNotFound, "Company not found")
				return
			}
			b.set("company_id", req.CompanyID.Value)
			changes = append(changes, services.FieldChange{Field: "company_id", Old: current.CompanyID, New: req.CompanyID.Value})
		}
	}
	if !b.empty() {
		query, args, _ := b.query("repairmen", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			if services.IsUniqueViolation(err) {
				WriteError(w, http.StatusConflict, "Repairman with this email already exists")
				return
			}
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityRepairmanUpdated, "repairman", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Repairman{}
	if err := s.DB.Get(&updated, `SELECT * FROM repairmen WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteRepairman(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "repairmanID"))
	if mapServiceError(w, err) {
		return
	}
	repairman := models.Repairman{}
	if err := s.DB.Get(&repairman, `DELETE FROM repairmen WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Repairman not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityRepairmanDeleted, "repairman", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, repairman)
}
