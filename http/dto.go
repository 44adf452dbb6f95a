package http

import "loan-origination/domain"

// LoanTermsRequest is the body of the schedule and calculate endpoints.
// Tenure arrives as a JSON number so fractional years can be rejected
// instead of silently truncated.
type LoanTermsRequest struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TenureYears       float64 `json:"tenure_years"`
}

func (r LoanTermsRequest) toTerms() (domain.LoanTerms, error) {
	terms := domain.LoanTerms{
		Principal:         r.Principal,
		AnnualRatePercent: r.AnnualRatePercent,
		TenureYears:       1,
	}
	// principal and rate errors take precedence over tenure errors
	if err := terms.Validate(); err != nil {
		return domain.LoanTerms{}, err
	}
	years, err := domain.TenureFromFloat(r.TenureYears)
	if err != nil {
		return domain.LoanTerms{}, err
	}
	terms.TenureYears = years
	return terms, nil
}

type ScheduleResponse struct {
	Terms    domain.LoanTerms            `json:"terms"`
	Summary  domain.LoanSummary          `json:"summary"`
	Schedule domain.AmortizationSchedule `json:"schedule"`
}

type CalculationsResponse struct {
	Calculations []domain.CalculationRecord `json:"calculations"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
