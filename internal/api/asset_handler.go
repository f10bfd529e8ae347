package api

import (
	"net/http"
	"strconv"

	"fleetrent-backend/internal/domain"
	"fleetrent-backend/internal/service"
)

// AssetHandler exposes the asset catalog over HTTP.
type AssetHandler struct {
	assets service.AssetService
}

func NewAssetHandler(assets service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// Get handles GET /api/assets/{id}.
func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.assets.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}

// List handles GET /api/assets.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AssetFilter{
		Type:       q.Get("type"),
		Status:     domain.AssetStatus(q.Get("status")),
		ActiveOnly: q.Get("active_only") == "true",
	}

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 64)

	assets, total, err := h.assets.ListAssets(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []domain.Asset{}
	}
	if page < 1 {
		page = 1
	}
	jsonResponse(w, http.StatusOK, pagedResponse{Items: assets, Total: total, Page: page})
}

// ListMaintenanceDue handles GET /api/assets/maintenance-due.
func (h *AssetHandler) ListMaintenanceDue(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.ListNeedingMaintenance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if assets == nil {
		assets = []domain.Asset{}
	}
	jsonResponse(w, http.StatusOK, assets)
}

// Update handles PUT /api/assets/{id}. The body must carry the version the
// caller read; a stale version is rejected with 409.
func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	var asset domain.Asset
	if err := decodeJSON(r, &asset); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asset.ID = id

	if err := h.assets.UpdateAsset(r.Context(), &asset); err != nil {
		writeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, asset)
}
