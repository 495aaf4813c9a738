package handler

import (
	"context"
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type AssetRequestHandler struct {
	svc *service.AssetRequestService
}

func NewAssetRequestHandler(svc *service.AssetRequestService) *AssetRequestHandler {
	return &AssetRequestHandler{svc: svc}
}

func (h *AssetRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := listFilter(w, r)
	if !ok {
		return
	}
	kind := models.AssetKind(r.URL.Query().Get("kind"))
	page, err := h.svc.List(r.Context(), auth.GetUser(r.Context()), f, kind)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AssetRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.AssetRequestInput
	if err := readJSON(r, &in); err != nil {
		badBody(w)
		return
	}
	req, err := h.svc.Create(r.Context(), auth.GetUser(r.Context()), in)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

func (h *AssetRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Approve)
}

func (h *AssetRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.svc.Reject)
}

func (h *AssetRequestHandler) decide(w http.ResponseWriter, r *http.Request,
	fn func(context.Context, *auth.Claims, uint, string) (*models.AssetRequest, error)) {
	id, ok := pathID(w, r, "requestId")
	if !ok {
		return
	}
	remarks, err := readRemarks(r)
	if err != nil {
		badBody(w)
		return
	}
	req, err := fn(r.Context(), auth.GetUser(r.Context()), id, remarks)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
