package httpapi

import (
	"io"
	"net/http"
	"strings"

	"smartlighting-backend-go/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) ExportJSON(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	admin := CurrentAdmin(r)
	data := services.BuildExport(s.DB, admin.Email, format)
	services.RecordActivity(s.DB, services.ActivityDataExport, "system", nil, admin.Email, nil)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (s *Server) ExportExcel(w http.ResponseWriter, r *http.Request) {
	admin := CurrentAdmin(r)
	file, err := services.BuildExcelExport(s.DB, admin.Email)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	defer func() { _ = file.Close() }()
	services.RecordActivity(s.DB, services.ActivityDataExport, "system", nil, admin.Email, nil)
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition",
		`attachment; filename="`+services.ExportFilename("smartlighting_export", "xlsx")+`"`)
	w.WriteHeader(http.StatusOK)
	_ = file.Write(w)
}

func (s *Server) Backup(w http.ResponseWriter, r *http.Request) {
	admin := CurrentAdmin(r)
	data := services.BuildBackup(s.DB, admin.Email)
	services.RecordActivity(s.DB, services.ActivityBackupCreated, "system", nil, admin.Email, nil)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

// Import accepts either a raw JSON body or a multipart upload with a
// "file" part holding a previously exported document.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	var raw []byte
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Missing file upload")
			return
		}
		defer func() { _ = file.Close() }()
		raw, err = io.ReadAll(file)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Could not read file upload")
			return
		}
	} else {
		var err error
		raw, err = io.ReadAll(r.Body)
		if err != nil || len(raw) == 0 {
			WriteError(w, http.StatusBadRequest, "Request body is required")
			return
		}
	}
	counts, err := services.ImportData(s.DB, raw)
	if err != nil {
		if mapServiceError(w, err) {
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	admin := CurrentAdmin(r)
	services.RecordActivity(s.DB, services.ActivityDataImport, "system", nil, admin.Email, nil)
	WriteJSON(w, http.StatusOK, map[string]interface{}{"imported": counts})
}
