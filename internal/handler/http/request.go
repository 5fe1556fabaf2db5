package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

// multipart bodies carry one image plus a small JSON part
const maxMultipartBody = validator.MaxImageSize + 1<<20

// uploadedFile is an optional file part. A missing part leaves both fields nil.
type uploadedFile struct {
	File   multipart.File
	Header *multipart.FileHeader
}

func (f uploadedFile) Close() {
	if f.File != nil {
		f.File.Close()
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error("Failed to decode request body", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// decodeMultipart reads the JSON 'data' field into dst and the image part
// named fileField. It writes the error response itself and returns false on
// failure.
func decodeMultipart(w http.ResponseWriter, r *http.Request, dst interface{}, fileField string) (uploadedFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBody)
	if err := r.ParseMultipartForm(validator.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestTooLarge(w, "Request body must not exceed 11MB")
			return uploadedFile{}, false
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return uploadedFile{}, false
	}

	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			slog.Error("Failed to unmarshal JSON data", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return uploadedFile{}, false
		}
	}

	file, header, err := r.FormFile(fileField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return uploadedFile{}, true
		}
		slog.Error("Failed to get file from form", "field", fileField, "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return uploadedFile{}, false
	}
	return uploadedFile{File: file, Header: header}, true
}

// pathUUID reads the route parameter param. A malformed value gets a 422
// keyed by field and false.
func pathUUID(w http.ResponseWriter, r *http.Request, param, field string) (string, bool) {
	id := chi.URLParam(r, param)
	if !validator.IsValidUUID(id) {
		response.ValidationError(w, map[string]string{field: field + " must be a valid UUID"})
		return "", false
	}
	return id, true
}

func queryString(r *http.Request, key string) *string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); v != "" {
		return &v
	}
	return nil
}

// queryBool accepts true/false/1/0; anything else leaves the filter off.
func queryBool(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

func pageParams(r *http.Request) (page, limit int) {
	return queryInt(r, "page"), queryInt(r, "limit")
}
