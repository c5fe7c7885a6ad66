package handlers

import (
	"net/http"

	"github.com/HammerMeetNail/giftmatch/internal/logging"
	"github.com/HammerMeetNail/giftmatch/internal/models"
	"github.com/HammerMeetNail/giftmatch/internal/services"
)

type TaxonomyHandler struct {
	taxonomyService services.TaxonomyServiceInterface
}

func NewTaxonomyHandler(taxonomyService services.TaxonomyServiceInterface) *TaxonomyHandler {
	return &TaxonomyHandler{taxonomyService: taxonomyService}
}

type CategoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

type GiftTypesResponse struct {
	GiftTypes []models.GiftType `json:"gift_types"`
}

func (h *TaxonomyHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.taxonomyService.ListActiveCategories(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("Error listing categories", logging.Fields{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (h *TaxonomyHandler) GiftTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.taxonomyService.ListGiftTypes(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("Error listing gift types", logging.Fields{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if types == nil {
		types = []models.GiftType{}
	}
	writeJSON(w, http.StatusOK, GiftTypesResponse{GiftTypes: types})
}
