package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	MonthsPerYear = 12

	MaxPrincipal         = 1_000_000_000.0 // 1 billón
	MaxAnnualRatePercent = 1000.0          // 1000% anual
	MaxTenureYears       = 50              // 50 años, 600 cuotas
)

// LoanTerms are the inputs of an amortizing loan.
type LoanTerms struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	TenureYears       int     `json:"tenure_years"`
}

// Validate checks the terms in principal, rate, tenure order and returns the
// first violation as a *ValidationError.
func (t LoanTerms) Validate() error {
	switch {
	case math.IsNaN(t.Principal) || math.IsInf(t.Principal, 0) || t.Principal <= 0:
		return NewValidationError(KindInvalidPrincipal, "monto inválido")
	case t.Principal > MaxPrincipal:
		return NewValidationError(KindInvalidPrincipal,
			fmt.Sprintf("monto excede el máximo permitido de $%.2f", MaxPrincipal))
	case math.IsNaN(t.AnnualRatePercent) || math.IsInf(t.AnnualRatePercent, 0) || t.AnnualRatePercent < 0:
		return NewValidationError(KindInvalidRate, "tasa inválida")
	case t.AnnualRatePercent > MaxAnnualRatePercent:
		return NewValidationError(KindInvalidRate,
			fmt.Sprintf("tasa de interés excede el máximo permitido de %.2f%%", MaxAnnualRatePercent))
	case t.TenureYears <= 0:
		return NewValidationError(KindInvalidTenure, "plazo inválido")
	case t.TenureYears > MaxTenureYears:
		return NewValidationError(KindInvalidTenure,
			fmt.Sprintf("plazo excede el máximo permitido de %d años", MaxTenureYears))
	}
	return nil
}

// MonthlyRate is the periodic rate as a fraction, e.g. 8.5% a year is 0.0070833.
func (t LoanTerms) MonthlyRate() float64 {
	return t.AnnualRatePercent / MonthsPerYear / 100
}

func (t LoanTerms) NumberOfPayments() int {
	return t.TenureYears * MonthsPerYear
}

// TenureFromFloat converts a tenure received as a JSON number into whole years.
// Fractional, non-finite and non-positive values are rejected.
func TenureFromFloat(years float64) (int, error) {
	if math.IsNaN(years) || math.IsInf(years, 0) || years <= 0 || years != math.Trunc(years) {
		return 0, NewValidationError(KindInvalidTenure, "plazo inválido: debe ser un número entero de años")
	}
	if years > MaxTenureYears {
		return 0, NewValidationError(KindInvalidTenure,
			fmt.Sprintf("plazo excede el máximo permitido de %d años", MaxTenureYears))
	}
	return int(years), nil
}

// MonthlyPayment is one row of an amortization schedule. Every amount is
// rounded to two decimals.
type MonthlyPayment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	PrincipalComponent float64 `json:"principal_component"`
	InterestComponent  float64 `json:"interest_component"`
	CumulativeInterest float64 `json:"cumulative_interest"`
	RemainingBalance   float64 `json:"remaining_balance"`
}

// AmortizationSchedule is ordered by Month, starting at 1.
type AmortizationSchedule []MonthlyPayment

// TotalInterest is the cumulative interest reported on the last row.
func (s AmortizationSchedule) TotalInterest() float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].CumulativeInterest
}

type LoanSummary struct {
	MonthlyPayment   float64 `json:"monthly_payment"`
	TotalPayment     float64 `json:"total_payment"`
	TotalInterest    float64 `json:"total_interest"`
	NumberOfPayments int     `json:"number_of_payments"`
}

// CalculationRecord is a stored loan calculation.
type CalculationRecord struct {
	ID        string      `json:"id"`
	Terms     LoanTerms   `json:"terms"`
	Summary   LoanSummary `json:"summary"`
	CreatedAt time.Time   `json:"created_at"`
}
