package http

import (
	"net/http"
	"strconv"

	"loan-origination/service"
)

type LoanHandler struct {
	service *service.LoanService
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{service: service}
}

// Schedule responds with the full amortization schedule and its summary.
func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req LoanTermsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	terms, err := req.toTerms()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	schedule, err := h.service.Schedule(r.Context(), terms)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	summary, err := service.Summarize(terms)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, ScheduleResponse{
		Terms:    terms,
		Summary:  summary,
		Schedule: schedule,
	})
}

// CalculateLoan responds with the loan summary and records the calculation.
func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanTermsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	terms, err := req.toTerms()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	summary, err := h.service.Calculate(r.Context(), terms)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

// ListCalculations serves GET ?limit=N, newest first.
func (h *LoanHandler) ListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, KindInvalidRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, CalculationsResponse{Calculations: records})
}
