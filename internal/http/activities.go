package httpapi

import (
	"net/http"

	"smartlighting-backend-go/internal/models"
)

func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	skip := parseInt(r.URL.Query().Get("skip"), 0)
	limit := parseInt(r.URL.Query().Get("limit"), 100)
	if limit > 500 {
		limit = 500
	}
	activities := []models.DatabaseActivity{}
	if err := s.DB.Select(&activities, `
SELECT * FROM database_activities
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, skip); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, activities)
}

func (s *Server) RecentActivities(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 10)
	if limit > 100 {
		limit = 100
	}
	activities := []models.DatabaseActivity{}
	if err := s.DB.Select(&activities, `
SELECT * FROM database_activities
ORDER BY created_at DESC
LIMIT $1
`, limit); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, activities)
}
