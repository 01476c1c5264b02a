package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oakvale-college/lifecycle-service/internal/core/domain"
	"github.com/oakvale-college/lifecycle-service/internal/core/ports"
)

type AssetHandler struct {
	assetService ports.AssetService
}

func NewAssetHandler(assetService ports.AssetService) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

type AssetListResponse struct {
	Assets []domain.Asset `json:"assets"`
	Total  int            `json:"total"`
	Page   int            `json:"page"`
}

type PersonAssetsResponse struct {
	PersonID string         `json:"person_id"`
	Assets   []domain.Asset `json:"assets"`
}

type SyncResponse struct {
	Synced int `json:"synced"`
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	assets, total, err := h.assetService.List(r.Context(), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, AssetListResponse{Assets: assets, Total: total, Page: page})
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "asset id must be numeric"})
		return
	}

	asset, err := h.assetService.Get(r.Context(), assetID)
	if err != nil {
		respondError(w, err)
		return
	}
	if asset == nil {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "asset not found"})
		return
	}
	respondJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) PersonAssets(w http.ResponseWriter, r *http.Request) {
	personID := mux.Vars(r)["id"]
	assets, err := h.assetService.PersonAssets(r.Context(), personID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, PersonAssetsResponse{PersonID: personID, Assets: assets})
}

func (h *AssetHandler) Sync(w http.ResponseWriter, r *http.Request) {
	synced, err := h.assetService.Sync(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, SyncResponse{Synced: synced})
}
