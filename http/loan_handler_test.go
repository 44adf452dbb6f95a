package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-origination/domain"
	"loan-origination/logging"
	"loan-origination/repository"
	"loan-origination/service"
)

func newTestRouter(t *testing.T, limiter *RateLimiter) http.Handler {
	logger := logging.Discard()
	loanService := service.NewLoanService(
		repository.NewCalculationRepositoryMemory(),
		repository.NewMemoryCache(),
		logger,
	)
	return NewRouter(RouterConfig{
		LoanHandler:               NewLoanHandler(loanService),
		TermRecommendationHandler: NewTermRecommendationHandler(service.NewTermRecommendationService(logger)),
		RateLimiter:               limiter,
		Logger:                    logger,
		AllowedOrigins:            []string{"http://localhost:5173"},
	})
}

func postJSON(t *testing.T, h http.Handler, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestScheduleHandler_OK(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loans/schedule",
		`{"principal": 100000, "annual_rate_percent": 10, "tenure_years": 1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ScheduleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Schedule, 12)
	assert.Equal(t, 1, resp.Schedule[0].Month)
	assert.InDelta(t, 833.33, resp.Schedule[0].InterestComponent, 1e-9)
	assert.Zero(t, resp.Schedule[11].RemainingBalance)
	assert.Equal(t, 12, resp.Summary.NumberOfPayments)
	assert.Equal(t, domain.LoanTerms{Principal: 100000, AnnualRatePercent: 10, TenureYears: 1}, resp.Terms)
}

func TestScheduleHandler_ValidationKinds(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind domain.ErrorKind
	}{
		{"negative principal", `{"principal": -100, "annual_rate_percent": 5, "tenure_years": 1}`, domain.KindInvalidPrincipal},
		{"missing principal", `{"annual_rate_percent": 5, "tenure_years": 1}`, domain.KindInvalidPrincipal},
		{"negative rate", `{"principal": 1000, "annual_rate_percent": -1, "tenure_years": 1}`, domain.KindInvalidRate},
		{"zero tenure", `{"principal": 1000, "annual_rate_percent": 5, "tenure_years": 0}`, domain.KindInvalidTenure},
		{"fractional tenure", `{"principal": 1000, "annual_rate_percent": 5, "tenure_years": 2.5}`, domain.KindInvalidTenure},
		{"tenure too long", `{"principal": 1000, "annual_rate_percent": 5, "tenure_years": 51}`, domain.KindInvalidTenure},
	}

	router := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, router, "/api/loans/schedule", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, string(tt.kind), decodeError(t, w).Kind)
		})
	}
}

func TestScheduleHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loans/schedule", `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, KindInvalidRequest, decodeError(t, w).Kind)

	w = postJSON(t, router, "/api/loans/schedule", `{"principal": 1000, "rate": 5, "tenure_years": 1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "unknown fields are rejected")
}

func TestScheduleHandler_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/loans/schedule",
		bytes.NewBufferString(`{"principal": 1000, "annual_rate_percent": 5, "tenure_years": 1}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestScheduleHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/loans/schedule", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateHandler_RecordsHistory(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loans/calculate",
		`{"principal": 12000, "annual_rate_percent": 0, "tenure_years": 1}`)
	require.Equal(t, http.StatusOK, w.Code)

	var summary domain.LoanSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1000.0, summary.MonthlyPayment)
	assert.Zero(t, summary.TotalInterest)

	req := httptest.NewRequest(http.MethodGet, "/api/loans/calculations?limit=5", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var history CalculationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Calculations, 1)
	assert.Equal(t, 12000.0, history.Calculations[0].Terms.Principal)
}

func TestListCalculations_InvalidLimit(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/loans/calculations?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecommendTenureHandler(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loans/recommend-tenure", `{
		"principal": 200000,
		"annual_rate_percent": 7,
		"min_tenure_years": 5,
		"max_tenure_years": 30,
		"max_monthly_payment": 3000,
		"preference": "balanced"
	}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result domain.TenureRecommendationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Recommendations)
	assert.Equal(t, result.Recommendations[0].TenureYears, result.RecommendedTenureYears)
}

func TestRecommendTenureHandler_Errors(t *testing.T) {
	router := newTestRouter(t, nil)

	w := postJSON(t, router, "/api/loans/recommend-tenure", `{
		"principal": 200000, "annual_rate_percent": 7,
		"min_tenure_years": 5, "max_tenure_years": 10,
		"max_monthly_payment": 10, "preference": "balanced"
	}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, KindNoAffordableTenure, decodeError(t, w).Kind)

	w = postJSON(t, router, "/api/loans/recommend-tenure", `{
		"principal": 200000, "annual_rate_percent": 7,
		"min_tenure_years": 5, "max_tenure_years": 10,
		"max_monthly_payment": 3000, "preference": "cheapest"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, KindInvalidRequest, decodeError(t, w).Kind)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRouter_RateLimitsLoanRoutes(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(t, limiter)

	body := `{"principal": 1000, "annual_rate_percent": 5, "tenure_years": 1}`
	for i := 0; i < 2; i++ {
		w := postJSON(t, router, "/api/loans/calculate", body)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(1-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := postJSON(t, router, "/api/loans/calculate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, KindRateLimited, decodeError(t, w).Kind)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	health := httptest.NewRecorder()
	router.ServeHTTP(health, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code, "health checks are not rate limited")
}
