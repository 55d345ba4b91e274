package handler

import (
	"errors"
	"net/http"
	"strings"

	"codetrek/internal/app/service"
	"codetrek/internal/common"

	"github.com/go-chi/chi/v5"
)

type UploadHandler struct {
	uploadService *service.UploadService
}

func NewUploadHandler(us *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: us}
}

func (h *UploadHandler) RegisterRoutes(r chi.Router) {
	r.Post("/upload-file", h.upload)
}

func (h *UploadHandler) upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in *service.UploadInput
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		in = &service.UploadInput{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// leave in nil; the service reports the missing file
	default:
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload: "+err.Error())
		return
	}

	uploaded, err := h.uploadService.Upload(r.Context(), userID, in)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	uploaded.FileURL = absoluteURL(r, uploaded.FileURL)
	common.RespondWithJSON(w, http.StatusCreated, uploaded)
}

// absoluteURL resolves a host-relative URL against the request's scheme and host.
func absoluteURL(r *http.Request, u string) string {
	if !strings.HasPrefix(u, "/") {
		return u
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	return scheme + "://" + r.Host + u
}
