package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

func (s *Server) ListUpdates(w http.ResponseWriter, r *http.Request) {
	updates := []models.Update{}
	if err := s.DB.Select(&updates, `SELECT * FROM updates ORDER BY created_at DESC`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updates)
}

func (s *Server) UpdateInfo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "updateID"))
	if mapServiceError(w, err) {
		return
	}
	update := models.Update{}
	if err := s.DB.Get(&update, `SELECT * FROM updates WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Update not found")
		return
	}
	WriteJSON(w, http.StatusOK, update)
}

type UpdateCreateRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Version *string `json:"version"`
}

func (s *Server) AddUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		WriteError(w, http.StatusBadRequest, "Title and content are required")
		return
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO updates (title, content, version, created_at)
VALUES ($1,$2,$3,now())
RETURNING id
`, title, content, req.Version)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivitySystemUpdate, "update", &id, CurrentAdmin(r).Email, nil)
	update := models.Update{}
	if err := s.DB.Get(&update, `SELECT * FROM updates WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, update)
}

type UpdateEditRequest struct {
	Title   *string        `json:"title"`
	Content *string        `json:"content"`
	Version OptionalString `json:"version"`
}

func (s *Server) EditUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "updateID"))
	if mapServiceError(w, err) {
		return
	}
	current := models.Update{}
	if err := s.DB.Get(&current, `SELECT * FROM updates WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Update not found")
		return
	}
	var req UpdateEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	b := updateBuilder{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			WriteError(w, http.StatusBadRequest, "Title must not be empty")
			return
		}
		b.set("title", title)
	}
	if req.Content != nil {
		content := strings.TrimSpace(*req.Content)
		if content == "" {
			WriteError(w, http.StatusBadRequest, "Content must not be empty")
			return
		}
		b.set("content", content)
	}
	if req.Version.Set {
		b.set("version", req.Version.arg())
	}
	if !b.empty() {
		b.set("updated_at", nowUTC())
		query, args, _ := b.query("updates", id)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivitySystemUpdate, "update", &id, CurrentAdmin(r).Email, nil)
	}
	updated := models.Update{}
	if err := s.DB.Get(&updated, `SELECT * FROM updates WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "updateID"))
	if mapServiceError(w, err) {
		return
	}
	result, err := s.DB.Exec(`DELETE FROM updates WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Update not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivitySystemUpdate, "update", &id, CurrentAdmin(r).Email, nil)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
