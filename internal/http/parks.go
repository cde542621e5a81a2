package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type ParkCreateRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (s *Server) AddPark(w http.ResponseWriter, r *http.Request) {
	var req ParkCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		WriteError(w, http.StatusBadRequest, "Name and address are required")
		return
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO parks (name, address, latitude, longitude, created_at)
VALUES ($1,$2,$3,$4,now())
RETURNING id
`, name, address, req.Latitude, req.Longitude)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityParkCreated, "park", &id, CurrentAdmin(r).Email, nil)
	park := models.Park{}
	if err := s.DB.Get(&park, `SELECT * FROM parks WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, park)
}

func (s *Server) ListParks(w http.ResponseWriter, r *http.Request) {
	parks := []models.Park{}
	if err := s.DB.Select(&parks, `SELECT * FROM parks ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, parks)
}

func (s *Server) ParkInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "parkID"))
	if mapServiceError(w, err) {
		return
	}
	park := models.Park{}
	if err := s.DB.Get(&park, `SELECT * FROM parks WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Park not found")
		return
	}
	WriteJSON(w, http.StatusOK, park)
}

type ParkUpdateRequest struct {
	Name      *string       `json:"name"`
	Address   *string       `json:"address"`
	Latitude  OptionalFloat `json:"latitude"`
	Longitude OptionalFloat `json:"longitude"`
}

func (s *Server) UpdatePark(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "parkID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Park{}
	if err := s.DB.Get(&current, `SELECT * FROM parks WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Park not found")
		return
	}
	var req ParkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			WriteError(w, http.StatusBadRequest, "Name must not be empty")
			return
		}
		b.set("name", name)
		changes = append(changes, services.FieldChange{Field: "name", Old: current.Name, New: name})
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			WriteError(w, http.StatusBadRequest, "Address must not be empty")
			return
		}
		b.set("address", address)
		changes = append(changes, services.FieldChange{Field: "address", Old: current.Address, New: address})
	}
	if req.Latitude.Set {
		b.set("latitude", req.Latitude.arg())
		changes = append(changes, services.FieldChange{Field: "latitude", Old: current.Latitude, New: req.Latitude.arg()})
	}
	if req.Longitude.Set {
		b.set("longitude", req.Longitude.arg())
		changes = append(changes, services.FieldChange{Field: "longitude", Old: current.Longitude, New: req.Longitude.arg()})
	}
	if !b.empty() {
		b.set("updated_at", nowUTC())
		query, args, _ := b.query("parks", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityParkUpdated, "park", &id, CurrentAdmin(r).Email, changes)
	}
	updated := models.Park{}
	if err := s.DB.Get(&updated, `SELECT * FROM parks WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeletePark(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "parkID"))
	if mapServiceError(w, err) {
		return
	}
	park := models.Park{}
	if err := s.DB.Get(&park, `DELETE FROM parks WHERE id = $1 RETURNING *`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Park not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityParkDeleted, "park", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, park)
}
