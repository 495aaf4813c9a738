package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/repository"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

// AssetHandler serves every registry under /assets/{kind}.
type AssetHandler struct {
	catalog *service.AssetCatalog
}

func NewAssetHandler(catalog *service.AssetCatalog) *AssetHandler {
	return &AssetHandler{catalog: catalog}
}

func (h *AssetHandler) registry(w http.ResponseWriter, r *http.Request) (service.AssetRegistry, bool) {
	reg, err := h.catalog.Get(models.AssetKind(chi.URLParam(r, "kind")))
	if err != nil {
		fail(w, r, err)
		return nil, false
	}
	return reg, true
}

func (h *AssetHandler) Kinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.Kinds())
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	page, err := reg.List(r.Context(), repository.AssetQuery{
		Search:  q.Get("search"),
		Station: q.Get("station"),
		Status:  q.Get("status"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	})
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := readJSON(r, &raw); err != nil {
		badBody(w)
		return
	}
	asset, err := reg.Create(r.Context(), auth.GetUser(r.Context()), raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "assetId")
	if !ok {
		return
	}
	asset, err := reg.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "assetId")
	if !ok {
		return
	}
	var raw json.RawMessage
	if err := readJSON(r, &raw); err != nil {
		badBody(w)
		return
	}
	asset, err := reg.Update(r.Context(), auth.GetUser(r.Context()), id, raw)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	reg, ok := h.registry(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "assetId")
	if !ok {
		return
	}
	if err := reg.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint{"deleted": id})
}
