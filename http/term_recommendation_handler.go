package http

import (
	"net/http"

	"loan-origination/domain"
	"loan-origination/service"
)

type TermRecommendationHandler struct {
	service *service.TermRecommendationService
}

func NewTermRecommendationHandler(service *service.TermRecommendationService) *TermRecommendationHandler {
	return &TermRecommendationHandler{service: service}
}

func (h *TermRecommendationHandler) RecommendTenure(w http.ResponseWriter, r *http.Request) {
	var input domain.TenureRecommendationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.RecommendTenure(input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}
