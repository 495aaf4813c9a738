package handler

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type AttachmentHandler struct {
	svc *service.AttachmentService
}

func NewAttachmentHandler(svc *service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	reportID, ok := pathID(w, r, "reportId")
	if !ok {
		return
	}
	// Room for the multipart envelope on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxAttachmentSize+1<<20)
	if err := r.ParseMultipartForm(service.MaxAttachmentSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "file exceeds 12 MB")
			return
		}
		writeError(w, http.StatusBadRequest, "multipart form expected")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	a, err := h.svc.Upload(r.Context(), auth.GetUser(r.Context()), reportID, header.Filename, data, header.Header.Get("Content-Type"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "attachmentId")
	if !ok {
		return
	}
	data, a, err := h.svc.Download(r.Context(), auth.GetUser(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	disposition := mime.FormatMediaType("inline", map[string]string{"filename": a.FileName})
	if disposition == "" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

func (h *AttachmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "attachmentId")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), auth.GetUser(r.Context()), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint{"deleted": id})
}
