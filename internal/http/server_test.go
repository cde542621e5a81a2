package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"smartlighting-backend-go/internal/config"
	"smartlighting-backend-go/internal/services"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminEmail = "admin@example.com"

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	cfg := config.Config{
		JWTSecret:           "test-secret",
		JWTIssuer:           "smartlighting",
		AccessTTLSeconds:    3600,
		MobileTokenTTLHours: 720,
		QRTokenTTLMinutes:   10,
		CorsOrigins:         []string{"*"},
	}
	return NewServer(sqlx.NewDb(mockDB, "sqlmock"), cfg, services.NewMetricsHub()), mock
}

func adminRows(rights string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "surname", "email", "password_hash", "status", "rights", "park_id", "created_at",
	}).AddRow(int64(1), "Ana", "Popescu", testAdminEmail, "hash", "active", rights, nil, time.Now())
}

func expectAdminLookup(mock sqlmock.Sqlmock, rights string) {
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admins WHERE lower(email) = $1")).
		WithArgs(testAdminEmail).
		WillReturnRows(adminRows(rights))
}

func accessToken(t *testing.T, s *Server, rights string) string {
	t.Helper()
	token, _, err := s.Tokens.CreateAccessToken(testAdminEmail, rights)
	require.NoError(t, err)
	return token
}

func doRequest(s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func TestRoutesRequireAuth(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/lantern/list", "/park/list", "/activities/", "/admin/list"} {
		rr := doRequest(s, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO admins")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_admins_email"})

	rr := doRequest(s, http.MethodPost, "/admin/register",
		`{"first_name":"Ion","surname":"Rusu","email":"admin@example.com","password":"parola123"}`, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "already exists")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginInactiveAdminForbidden(t *testing.T) {
	s, mock := newTestServer(t)
	hash, err := s.Tokens.HashPassword("parola123")
	require.NoError(t, err)
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "surname", "email", "password_hash", "status", "rights", "park_id", "created_at",
	}).AddRow(int64(1), "Ana", "Popescu", testAdminEmail, hash, "inactive", "restricted_access", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admins WHERE lower(email) = $1")).
		WithArgs(testAdminEmail).
		WillReturnRows(rows)

	rr := doRequest(s, http.MethodPost, "/admin/login",
		`{"email":"admin@example.com","password":"parola123"}`, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestLoginIssuesBearerToken(t *testing.T) {
	s, mock := newTestServer(t)
	hash, err := s.Tokens.HashPassword("parola123")
	require.NoError(t, err)
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "surname", "email", "password_hash", "status", "rights", "park_id", "created_at",
	}).AddRow(int64(1), "Ana", "Popescu", testAdminEmail, hash, "active", "full_access", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admins WHERE lower(email) = $1")).
		WithArgs(testAdminEmail).
		WillReturnRows(rows)

	rr := doRequest(s, http.MethodPost, "/admin/login",
		`{"email":"admin@example.com","password":"parola123"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)

	token, claims, err := s.Tokens.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, testAdminEmail, claims["sub"])
	assert.Equal(t, "full_access", claims["rights"])
}

func TestDeactivatedAdminTokenRejected(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	rows := sqlmock.NewRows([]string{
		"id", "first_name", "surname", "email", "password_hash", "status", "rights", "park_id", "created_at",
	}).AddRow(int64(1), "Ana", "Popescu", testAdminEmail, "hash", "inactive", "full_access", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM admins WHERE lower(email) = $1")).
		WithArgs(testAdminEmail).
		WillReturnRows(rows)

	rr := doRequest(s, http.MethodGet, "/lantern/list", "", token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Account is inactive")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLanternNotFound(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM lanterns WHERE id = $1 RETURNING *")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rr := doRequest(s, http.MethodDelete, "/lantern/delete/42", "", token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Lantern not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteLanternReturnsRow(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM lanterns WHERE id = $1 RETURNING *")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_brightness", "active_brightness", "active_time", "status"}).
			AddRow(int64(7), "North gate", 50, 100, 30, "working"))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO database_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rr := doRequest(s, http.MethodDelete, "/lantern/delete/7", "", token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var lantern struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &lantern))
	assert.Equal(t, int64(7), lantern.ID)
	assert.Equal(t, "North gate", lantern.Name)
	assert.Equal(t, "working", lantern.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLanternDefaults(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO lanterns")).
		WithArgs(nil, nil, nil, nil, nil, 50, 100, 30, "working", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(10)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO database_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM lanterns WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_brightness", "active_brightness", "active_time", "status"}).
			AddRow(int64(10), 50, 100, 30, "working"))

	rr := doRequest(s, http.MethodPost, "/lantern/add", `{}`, token)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"working"`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddLanternUnknownParkNotFound(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(77)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rr := doRequest(s, http.MethodPost, "/lantern/add", `{"park_id":77}`, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Park not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBreakdownUnknownLanternInsertsNothing(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lanterns WHERE id = $1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	rr := doRequest(s, http.MethodPost, "/breakdown/add", `{"lantern_id":5}`, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddBreakdownRejectsBadDate(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lanterns WHERE id = $1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rr := doRequest(s, http.MethodPost, "/breakdown/add",
		`{"lantern_id":5,"reported_date":"15.06.2025"}`, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "YYYY-MM-DD")
}

func TestUpdateCompanyEmptyBodyIsNoOp(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	companyRow := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "address", "phone", "email", "notes"}).
			AddRow(int64(3), "Lumina SRL", nil, nil, nil, nil)
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM companies WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(companyRow())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM companies WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(companyRow())

	rr := doRequest(s, http.MethodPut, "/company/update/3", `{}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Lumina SRL")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCompanyNoneClearsField(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM companies WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "phone", "email", "notes"}).
			AddRow(int64(3), "Lumina SRL", "Str. Exemplu 4", nil, nil, nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE companies SET address = $1 WHERE id = $2")).
		WithArgs(nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO database_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM companies WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address", "phone", "email", "notes"}).
			AddRow(int64(3), "Lumina SRL", nil, nil, nil, nil))

	rr := doRequest(s, http.MethodPut, "/company/update/3", `{"address":"none"}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"address":null`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateLanternClearsParkWithZero(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "full_access")
	expectAdminLookup(mock, "full_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM lanterns WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_brightness", "active_brightness", "active_time", "status", "park_id"}).
			AddRow(int64(8), 50, 100, 30, "working", int64(2)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE lanterns SET park_id = $1, updated_at = $2 WHERE id = $3")).
		WithArgs(nil, sqlmock.AnyArg(), int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO database_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM lanterns WHERE id = $1")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_brightness", "active_brightness", "active_time", "status", "park_id"}).
			AddRow(int64(8), 50, 100, 30, "working", nil))

	rr := doRequest(s, http.MethodPut, "/lantern/update/8", `{"park_id":0}`, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"park_id":null`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestrictedAdminCannotImport(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "restricted_access")
	expectAdminLookup(mock, "restricted_access")

	rr := doRequest(s, http.MethodPost, "/admin/import", `{"data":{}}`, token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestStatisticsAcceptsQueryParam(t *testing.T) {
	s, mock := newTestServer(t)
	token := accessToken(t, s, "restricted_access")
	expectAdminLookup(mock, "restricted_access")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM parks WHERE id = $1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_top_activated_lanterns($1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "activation_count"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_lanterns_needing_renovation($1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "last_renovation_date"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM get_planned_renovations($1)")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "lantern_id", "date"}))

	rr := doRequest(s, http.MethodPost, "/statistics?park_id=5", "", token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIotFaultCreatesBreakdown(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lanterns WHERE id = $1)")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO breakdowns")).
		WithArgs(int64(4), "voltage_drop; 2.1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(15)))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO database_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rr := doRequest(s, http.MethodPost, "/iot/lanterns/4/fault?error_type=voltage_drop&value=2.1", "", "")
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"breakdown_id":15`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIotMotionRecordsPing(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lanterns WHERE id = $1)")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sensor_responses")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	rr := doRequest(s, http.MethodPost, "/iot/lanterns/4/motion", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQRPairingFlow(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(s, http.MethodPost, "/mobile/auth/generate-qr", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var qr QRResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &qr))
	assert.NotEmpty(t, qr.Token)
	assert.NotEmpty(t, qr.QRCodeBase64)

	rr = doRequest(s, http.MethodPost, "/mobile/auth/validate-qr", `{"token":"`+qr.Token+`"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "access_token")

	// A pairing token validates exactly once.
	rr = doRequest(s, http.MethodPost, "/mobile/auth/validate-qr", `{"token":"`+qr.Token+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "already used")
}

func TestValidateQRUnknownToken(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodPost, "/mobile/auth/validate-qr", `{"token":"bogus"}`, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMobileHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rr := doRequest(s, http.MethodGet, "/mobile/health", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ok"`)
}

func TestMobileControlRejectsUnknownAction(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM lanterns WHERE id = $1)")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rr := doRequest(s, http.MethodPost, "/mobile/lanterns/control",
		`{"lantern_id":2,"action":"explode"}`, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
