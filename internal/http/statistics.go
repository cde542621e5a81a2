package httpapi

import (
	"encoding/json"
	"net/http"

	"smartlighting-backend-go/internal/services"
)

type StatisticsRequest struct {
	ParkID int64 `json:"park_id"`
}

// Statistics takes park_id either as a query parameter or in the JSON
// body; the admin frontend sends the former.
func (s *Server) Statistics(w http.ResponseWriter, r *http.Request) {
	var req StatisticsRequest
	if raw := r.URL.Query().Get("park_id"); raw != "" {
		req.ParkID = int64(parseInt(raw, 0))
	} else if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if req.ParkID <= 0 {
		WriteError(w, http.StatusBadRequest, "park_id is required")
		return
	}
	stats, err := services.FetchStatistics(s.DB, req.ParkID)
	if err != nil {
		if mapServiceError(w, err) {
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
