package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type SOSHandler struct {
	svc *service.SOSService
}

func NewSOSHandler(svc *service.SOSService) *SOSHandler {
	return &SOSHandler{svc: svc}
}

func (h *SOSHandler) Raise(w http.ResponseWriter, r *http.Request) {
	var in service.SOSInput
	if err := readJSON(r, &in); err != nil {
		badBody(w)
		return
	}
	alert, err := h.svc.Raise(r.Context(), auth.GetUser(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, alert)
}

func (h *SOSHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *SOSHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "sosId")
	if !ok {
		return
	}
	alert, err := h.svc.Acknowledge(r.Context(), auth.GetUser(r.Context()), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, alert)
}
