package http

import (
	"log/slog"
	"net/http"

	"github.com/fleetcrm/fleet-backend-go/internal/domain/auth"
	"github.com/fleetcrm/fleet-backend-go/internal/handler/http/response"
	"github.com/fleetcrm/fleet-backend-go/internal/pkg/validator"
	"github.com/fleetcrm/fleet-backend-go/internal/service/file"
)

type UploadHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
}

type uploadHandlerImpl struct {
	fileService file.FileService
}

func NewUploadHandler(fileService file.FileService) UploadHandler {
	return &uploadHandlerImpl{fileService: fileService}
}

type uploadResponse struct {
	Path string  `json:"path"`
	URL  *string `json:"url"`
}

// Upload stores a compressed image under the 'folder' form value and returns
// its relative path for use in later create requests.
func (h *uploadHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var discard struct{}
	upload, ok := decodeMultipart(w, r, &discard, "file")
	if !ok {
		return
	}
	defer upload.Close()

	folder := r.FormValue("folder")
	if folder == "" {
		folder = "misc"
	}

	var errs validator.ValidationErrors
	if !file.IsUploadFolder(folder) {
		errs.Add("folder", "folder must be one of: parking, fuel, misc")
	}
	validator.ValidateImage(&errs, "file", upload.Header, true)
	if err := errs.Err(); err != nil {
		response.HandleError(w, err)
		return
	}

	path, err := h.fileService.UploadReceipt(r.Context(), folder, id.CompanyID, upload.File, upload.Header.Filename)
	if err != nil {
		slog.Error("Upload error", "folder", folder, "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "File uploaded successfully", uploadResponse{
		Path: path,
		URL:  h.fileService.URL(&path),
	})
}
