package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/csv"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errNoFile = errors.New("no file provided")

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"activeImports": s.service.ActiveImports(),
	})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Types())
}

// handleImport runs one import from the request body.
//
// The file is either the "file" part of a multipart form or the raw body.
// A raw body is read as CSV unless its Content-Type is the XLSX type.
// Query parameters: dry_run, stop_on_error.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	importType := chi.URLParam(r, "type")
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)

	body, name, err := requestFile(r, importType)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}
	defer body.Close()

	src, err := csv.NewSource(body, name)
	if err != nil {
		s.respondError(w, r, err, nil)
		return
	}

	opts := core.ImportOptions{
		FileName:    name,
		DryRun:      queryBool(r, "dry_run"),
		StopOnError: queryBool(r, "stop_on_error"),
	}
	report, err := s.service.Import(r.Context(), importType, src, opts)
	if err != nil {
		s.respondError(w, r, err, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	writeJSON(w, http.StatusOK, s.service.History().Recent(limit))
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.service.History().Find(chi.URLParam(r, "runID"))
	if !ok {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "import run not found",
			Message: "import run not found",
			Code:    "IMP003",
		})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// requestFile returns the uploaded file and the name used to pick its
// reader.
func requestFile(r *http.Request, importType string) (io.ReadCloser, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		f, header, err := r.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return nil, "", errNoFile
		}
		if err != nil {
			return nil, "", err
		}
		return f, header.Filename, nil
	}

	if r.ContentLength == 0 {
		return nil, "", errNoFile
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = importType + ".csv"
		if mediaType == xlsxContentType {
			name = importType + ".xlsx"
		}
	}
	return r.Body, name, nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := dataimport.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
