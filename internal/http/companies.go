package httpapi

import (
	"encoding/json"
	"net/http"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type CompanyCreateRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Notes   *string `json:"notes"`
}

func (s *Server) AddCompany(w http.ResponseWriter, r *http.Request) {
	var req CompanyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO companies (name, address, phone, email, notes)
VALUES ($1,$2,$3,$4,$5)
RETURNING id
`, req.Name, req.Address, req.Phone, req.Email, req.Notes)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityCompanyCreated, "company", &id, CurrentAdmin(r).Email, nil)
	company := models.Company{}
	if err := s.DB.Get(&company, `SELECT * FROM companies WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, company)
}

func (s *Server) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies := []models.Company{}
	if err := s.DB.Select(&companies, `SELECT * FROM companies ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, companies)
}

func (s *Server) CompanyInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "companyID"))
	if mapServiceError(w, err) {
		return
	}
	company := models.Company{}
	if err := s.DB.Get(&company, `SELECT * FROM companies WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Company not found")
		return
	}
	WriteJSON(w, http.StatusOK, company)
}

type CompanyUpdateRequest struct {
	Name    OptionalString `json:"name"`
	Address OptionalString `json:"address"`
	Phone   OptionalString `json:"phone"`
	Email   OptionalString `json:"email"`
	Notes   OptionalString `json:"notes"`
}

func (s *Server) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "companyID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Company{}
	if err := s.DB.Get(&current, `SELECT * FROM companies WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Company not found")
		return
	}
	var req CompanyUpdateRequest
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
	if req.Address.Set {
		b.set("address", req.Address.arg())
		changes = append(changes, services.FieldChange{Field: "address", Old: current.Address, New: req.Address.arg()})
	}
	if req.Phone.Set {
		b.set("phone", req.Phone.arg())
		changes = append(changes, services.FieldChange{Field: "phone", Old: current.Phone, New: req.Phone.arg()})
	}
	if req.Email.Set {
		b.set("email", req.Email.arg())
		changes = append(changes, services.FieldChange{Field: "email", Old: current.Email, New: req.Email.arg()})
	}
	if req.Notes.Set {
		b.set("notes", req.Notes.arg())
		changes = append(changes, services.FieldChange{Field: "notes", Old: current.Notes, New: req.Notes.arg()})
	}
	if !b.empty() {
		query, args, _ := b.query("companies", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityCompanyUpdated, "company", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Company{}
	if err := s.DB.Get(&updated, `SELECT * FROM companies WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "companyID"))
	if mapServiceError(w, err) {
		return
	}
	company := models.Company{}
	if err := s.DB.Get(&company, `DELETE FROM companies WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Company not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityCompanyDeleted, "company", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, company)
}
