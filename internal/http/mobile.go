package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"
)

func (s *Server) MobileHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type MobileLanternStatus struct {
	ID             int64      `db:"id" json:"id"`
	Name           *string    `db:"name" json:"name"`
	Status         string     `db:"status" json:"status"`
	BaseBrightness int        `db:"base_brightness" json:"base_brightness"`
	ParkID         *int64     `db:"park_id" json:"park_id"`
	LastSeenAt     *time.Time `db:"last_seen_at" json:"last_seen_at"`
}

const lanternStatusQuery = `
SELECT l.id, l.name, l.status, l.base_brightness, l.park_id,
       (SELECT max(sr.recorded_at) FROM sensor_responses sr WHERE sr.lantern_id = l.id) AS last_seen_at
FROM lanterns l
`

func (s *Server) MobileLanternsStatus(w http.ResponseWriter, r *http.Request) {
	items := []MobileLanternStatus{}
	if err := s.DB.Select(&items, lanternStatusQuery+`ORDER BY l.id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) MobileLanternStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "lanternID"))
	if mapServiceError(w, err) {
		return
	}
	item := MobileLanternStatus{}
	if err := s.DB.Get(&item, lanternStatusQuery+`WHERE l.id = $1`, id); err != nil {
		WriteError(w, http.StatusNotFound, "Lantern not found")
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

type MobileControlRequest struct {
	LanternID  int64  `json:"lantern_id"`
	Action     string `json:"action"`
	Brightness *int   `json:"brightness"`
}

// MobileControl applies a coarse command from the citizen app. Commands
// translate to lantern state updates; the controllers pick them up on
// their next settings poll.
func (s *Server) MobileControl(w http.ResponseWriter, r *http.Request) {
	var req MobileControlRequest
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
	var err error
	switch req.Action {
	case "turn_on":
		_, err = s.DB.Exec(`UPDATE lanterns SET status = 'working', updated_at = now() WHERE id = $1`, req.LanternID)
	case "turn_off":
		_, err = s.DB.Exec(`UPDATE lanterns SET status = 'off', updated_at = now() WHERE id = $1`, req.LanternID)
	case "set_brightness":
		if req.Brightness == nil || !validBrightness(*req.Brightness) {
			WriteError(w, http.StatusBadRequest, "Brightness must be between 0 and 100")
			return
		}
		_, err = s.DB.Exec(`UPDATE lanterns SET base_brightness = $1, updated_at = now() WHERE id = $2`, *req.Brightness, req.LanternID)
	default:
		WriteError(w, http.StatusBadRequest, "Action must be one of: turn_on, turn_off, set_brightness")
		return
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityLanternUpdated, "lantern", &req.LanternID, "mobile", nil)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "applied", "action": req.Action})
}

// MobileBreakdownNotifications lists breakdowns reported in the current
// calendar month, newest first.
func (s *Server) MobileBreakdownNotifications(w http.ResponseWriter, r *http.Request) {
	breakdowns := []models.Breakdown{}
	if err := s.DB.Select(&breakdowns, `
SELECT * FROM breakdowns
WHERE reported_at >= date_trunc('month', now())
ORDER BY reported_at DESC
`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, breakdowns)
}

func (s *Server) MobileBreakdownHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	lanternRaw := r.URL.Query().Get("lantern_id")
	breakdowns := []models.Breakdown{}
	if lanternRaw != "" {
		lanternID, err := parseID(lanternRaw)
		if mapServiceError(w, err) {
			return
		}
		if err := s.DB.Select(&breakdowns, `
SELECT * FROM breakdowns
WHERE lantern_id = $1
ORDER BY reported_at DESC
LIMIT $2
`, lanternID, limit); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	} else {
		if err := s.DB.Select(&breakdowns, `
SELECT * FROM breakdowns
ORDER BY reported_at DESC
LIMIT $1
`, limit); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}
	WriteJSON(w, http.StatusOK, breakdowns)
}

type QRResponse struct {
	Token        string    `json:"token"`
	QRCodeBase64 string    `json:"qr_code_base64"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// MobileGenerateQR mints a pairing token and renders it as a QR code
// PNG for the admin dashboard to display.
func (s *Server) MobileGenerateQR(w http.ResponseWriter, r *http.Request) {
	token, expiresAt, err := s.QRTokens.Generate()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	png, err := qrcode.Encode("smartlighting://auth?token="+token, qrcode.Medium, 256)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, QRResponse{
		Token:        token,
		QRCodeBase64: base64.StdEncoding.EncodeToString(png),
		ExpiresAt:    expiresAt,
	})
}

type ValidateQRRequest struct {
	Token string `json:"token"`
}

func (s *Server) MobileValidateQR(w http.ResponseWriter, r *http.Request) {
	var req ValidateQRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		WriteError(w, http.StatusBadRequest, "Token is required")
		return
	}
	if err := s.QRTokens.Validate(strings.TrimSpace(req.Token)); mapServiceError(w, err) {
		return
	}
	access, err := services.NewOpaqueToken()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	expiresAt := time.Now().UTC().Add(time.Duration(s.Config.MobileTokenTTLHours) * time.Hour)
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": access,
		"token_type":   "bearer",
		"expires_at":   expiresAt,
	})
}

type MessageReportRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	PhotoURL    *string `json:"photo_url"`
	Priority    *string `json:"priority"`
	DeviceToken *string `json:"device_token"`
	IsPublic    *bool   `json:"is_public"`
}

func (s *Server) MobileReportMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		WriteError(w, http.StatusBadRequest, "Title and description are required")
		return
	}
	priority := "medium"
	if req.Priority != nil {
		if !validPriority(*req.Priority) {
			WriteError(w, http.StatusBadRequest, "Priority must be one of: low, medium, high, critical")
			return
		}
		priority = *req.Priority
	}
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	var id int64
	err := s.DB.Get(&id, `
INSERT INTO user_messages (title, description, location, photo_url, priority, status, device_token, created_at, is_public)
VALUES ($1,$2,$3,$4,$5,'new',$6,now(),$7)
RETURNING id
`, title, description, req.Location, req.PhotoURL, priority, req.DeviceToken, isPublic)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	message := models.UserMessage{}
	if err := s.DB.Get(&message, `SELECT * FROM user_messages WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, message)
}

// MobileMessages lists public messages; a device_token query widens the
// result to that device's own private reports.
func (s *Server) MobileMessages(w http.ResponseWriter, r *http.Request) {
	deviceToken := strings.TrimSpace(r.URL.Query().Get("device_token"))
	messages := []models.UserMessage{}
	var err error
	if deviceToken != "" {
		err = s.DB.Select(&messages, `
SELECT * FROM user_messages
WHERE is_public = true OR device_token = $1
ORDER BY created_at DESC
`, deviceToken)
	} else {
		err = s.DB.Select(&messages, `
SELECT * FROM user_messages
WHERE is_public = true
ORDER BY created_at DESC
`)
	}
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, messages)
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

func (s *Server) MobileRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var req RegisterDeviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.DeviceToken) == "" {
		WriteError(w, http.StatusBadRequest, "device_token is required")
		return
	}
	if _, err := s.DB.Exec(`
INSERT INTO device_registrations (device_token, registered_at)
VALUES ($1, now())
ON CONFLICT (device_token) DO UPDATE SET registered_at = now()
`, strings.TrimSpace(req.DeviceToken)); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}
