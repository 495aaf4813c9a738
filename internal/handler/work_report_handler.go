package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type WorkReportHandler struct {
	svc *service.WorkReportService
}

func NewWorkReportHandler(svc *service.WorkReportService) *WorkReportHandler {
	return &WorkReportHandler{svc: svc}
}

func (h *WorkReportHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := listFilter(w, r)
	if !ok {
		return
	}
	page, err := h.svc.List(r.Context(), auth.GetUser(r.Context()), f)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *WorkReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.WorkReportInput
	if err := readJSON(r, &in); err != nil {
		badBody(w)
		return
	}
	result, err := h.svc.Create(r.Context(), auth.GetUser(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *WorkReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reportId")
	if !ok {
		return
	}
	report, err := h.svc.Get(r.Context(), auth.GetUser(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *WorkReportHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reportId")
	if !ok {
		return
	}
	var in service.WorkReportInput
	if err := readJSON(r, &in); err != nil {
		badBody(w)
		return
	}
	report, err := h.svc.Update(r.Context(), auth.GetUser(r.Context()), id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *WorkReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reportId")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), auth.GetUser(r.Context()), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint{"deleted": id})
}

func (h *WorkReportHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "reportId")
	if !ok {
		return
	}
	remarks, err := readRemarks(r)
	if err != nil {
		badBody(w)
		return
	}
	report, err := h.svc.Review(r.Context(), auth.GetUser(r.Context()), id, remarks)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
