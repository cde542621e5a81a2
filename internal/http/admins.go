package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/models"
	"smartlighting-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	ParkID    *int64 `json:"park_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}

// Register creates an admin account. New accounts start inactive with
// restricted rights until a full-access admin activates them.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	if req.ParkID != nil {
		if !s.exists("parks", *req.ParkID) {
			WriteError(w, http.StatusNotFound, "Park not found")
			return
		}
	}
	hash, err := s.Tokens.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	var id int64
	err = s.DB.Get(&id, `
INSERT INTO admins (first_name, surname, email, password_hash, status, rights, park_id, created_at)
VALUES ($1,$2,$3,$4,'inactive','restricted_access',$5,now())
RETURNING id
`, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.Surname), email, hash, req.ParkID)
	if err != nil {
		if services.IsUniqueViolation(err) {
			WriteError(w, http.StatusConflict, "Admin with this email already exists")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	services.RecordActivity(s.DB, services.ActivityUserCreated, "admin", &id, email, nil)
	admin := models.Admin{}
	if err := s.DB.Get(&admin, `SELECT * FROM admins WHERE id = $1`, id); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, admin)
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || strings.TrimSpace(req.Password) == "" {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	admin := models.Admin{}
	if err := s.DB.Get(&admin, `SELECT * FROM admins WHERE lower(email) = $1`, email); err != nil {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if !s.Tokens.VerifyPassword(req.Password, admin.PasswordHash) {
		WriteError(w, http.StatusUnauthorized, "Authentication failed")
		return
	}
	if admin.Status != "active" {
		WriteError(w, http.StatusForbidden, "Account is inactive")
		return
	}
	access, exp, err := s.Tokens.CreateAccessToken(admin.Email, admin.Rights)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
		ExpiresAt:   exp,
	})
}

func (s *Server) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins := []models.Admin{}
	if err := s.DB.Select(&admins, `SELECT * FROM admins ORDER BY id`); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, admins)
}

func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, CurrentAdmin(r))
}

type EditSelfRequest struct {
	FirstName *string       `json:"first_name"`
	Surname   *string       `json:"surname"`
	Email     *string       `json:"email"`
	Password  *string       `json:"password"`
	ParkID    OptionalInt64 `json:"park_id"`
}

// EditSelf partially updates the authenticated admin's own account.
func (s *Server) EditSelf(w http.ResponseWriter, r *http.Request) {
	var req EditSelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	admin := CurrentAdmin(r)
	b := updateBuilder{}
	changes := []services.FieldChange{}
	if req.FirstName != nil {
		b.set("first_name", strings.TrimSpace(*req.FirstName))
		changes = append(changes, services.FieldChange{Field: "first_name", Old: admin.FirstName, New: *req.FirstName})
	}
	if req.Surname != nil {
		b.set("surname", strings.TrimSpace(*req.Surname))
		changes = append(changes, services.FieldChange{Field: "surname", Old: admin.Surname, New: *req.Surname})
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			WriteError(w, http.StatusBadRequest, "Email must not be empty")
			return
		}
		b.set("email", email)
		changes = append(changes, services.FieldChange{Field: "email", Old: admin.Email, New: email})
	}
	if req.Password != nil {
		hash, err := s.Tokens.HashPassword(*req.Password)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		b.set("password_hash", hash)
		changes = append(changes, services.FieldChange{Field: "password"})
	}
	if req.ParkID.Set {
		if req.ParkID.Null || req.ParkID.Value == 0 {
			b.set("park_id", nil)
			changes = append(changes, services.FieldChange{Field: "park_id", Old: admin.ParkID, New: nil})
		} else {
			if !s.exists("parks", req.ParkID.Value) {
				WriteError(w, http.StatusNotFound, "Park not found")
				return
			}
			b.set("park_id", req.ParkID.Value)
			changes = append(changes, services.FieldChange{Field: "park_id", Old: admin.ParkID, New: req.ParkID.Value})
		}
	}
	if !b.empty() {
		query, args, _ := b.query("admins", admin.ID)
		if _, err := s.DB.Exec(query, args...); err != nil {
			if services.IsUniqueViolation(err) {
				WriteError(w, http.StatusConflict, "Admin with this email already exists")
				return
			}
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityUserUpdated, "admin", &admin.ID, admin.Email, changes)
	}
	updated := models.Admin{}
	if err := s.DB.Get(&updated, `SELECT * FROM admins WHERE id = $1`, admin.ID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

type AdminStatusRequest struct {
	Status *string `json:"status"`
	Rights *string `json:"rights"`
}

// UpdateAdminStatus flips another admin's status or rights tier.
func (s *Server) UpdateAdminStatus(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "adminEmail")))
	var req AdminStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	target := models.Admin{}
	if err := s.DB.Get(&target, `SELECT * FROM admins WHERE lower(email) = $1`, email); err != nil {
		WriteError(w, http.StatusNotFound, "Admin not found")
		return
	}
	b := updateBuilder{}
	changes := []services.FieldChange{}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status != "active" && status != "inactive" {
			WriteError(w, http.StatusBadRequest, "Status must be one of: active, inactive")
			return
		}
		b.set("status", status)
		changes = append(changes, services.FieldChange{Field: "status", Old: target.Status, New: status})
	}
	if req.Rights != nil {
		rights := strings.TrimSpace(*req.Rights)
		if rights != "full_access" && rights != "restricted_access" {
			WriteError(w, http.StatusBadRequest, "Rights must be one of: full_access, restricted_access")
			return
		}
		b.set("rights", rights)
		changes = append(changes, services.FieldChange{Field: "rights", Old: target.Rights, New: rights})
	}
	if !b.empty() {
		query, args, _ := b.query("admins", target.ID)
		if _, err := s.DB.Exec(query, args...); err != nil {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		services.RecordActivity(s.DB, services.ActivityUserUpdated, "admin", &target.ID, CurrentAdmin(r).Email, changes)
	}
	updated := models.Admin{}
	if err := s.DB.Get(&updated, `SELECT * FROM admins WHERE id = $1`, target.ID); err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

func (s *Server) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "adminID"))
	if mapServiceError(w, err) {
		return
	}
	actor := CurrentAdmin(r)
	if actor.ID == id {
		WriteError(w, http.StatusBadRequest, "Cannot delete own account")
		return
	}
	result, err := s.DB.Exec(`DELETE FROM admins WHERE id = $1`, id)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		WriteError(w, http.StatusNotFound, "Admin not found")
		return
	}
	services.RecordActivity(s.DB, services.ActivityUserDeleted, "admin", &id, actor.Email, nil)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// exists reports whether the given table has a row with this id. The
// table name is always a compile-time constant at call sites.
func (s *Server) exists(table string, id int64) bool {
	var found bool
	if err := s.DB.Get(&found, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = $1)`, id); err != nil {
		return false
	}
	return found
}
