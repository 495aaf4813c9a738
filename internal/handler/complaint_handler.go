package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type ComplaintHandler struct {
	svc *service.ComplaintService
}

func NewComplaintHandler(svc *service.ComplaintService) *ComplaintHandler {
	return &ComplaintHandler{svc: svc}
}

func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *ComplaintHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.ComplaintInput
	if err := readJSON(r, &in); err != nil {
		badBody(w)
		return
	}
	c, err := h.svc.Create(r.Context(), auth.GetUser(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "complaintId")
	if !ok {
		return
	}
	c, err := h.svc.Get(r.Context(), auth.GetUser(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ComplaintHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "complaintId")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := readJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	c, err := h.svc.SetStatus(r.Context(), auth.GetUser(r.Context()), id, req.Status)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ComplaintHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "complaintId")
	if !ok {
		return
	}
	var req struct {
		ActionTaken string `json:"actionTaken"`
		Remarks     string `json:"remarks"`
	}
	if err := readJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	c, err := h.svc.Resolve(r.Context(), auth.GetUser(r.Context()), id, req.ActionTaken, req.Remarks)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ComplaintHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "complaintId")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), auth.GetUser(r.Context()), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint{"deleted": id})
}
