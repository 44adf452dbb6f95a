package service

import (
	"math"

	"github.com/shopspring/decimal"

	"loan-origination/domain"
)

// currencyPlaces is the precision of every amount placed in a schedule row.
const currencyPlaces = 2

// roundCurrency rounds half away from zero at cent precision. Going through
// decimal keeps values like 1.005 from rounding down because of their
// binary representation.
func roundCurrency(value float64) float64 {
	return decimal.NewFromFloat(value).Round(currencyPlaces).InexactFloat64()
}

// ComputeSchedule builds the month-by-month breakdown of a fixed-installment
// loan. Balances and interest are kept at full precision; rounding only
// applies to the values reported in each row.
func ComputeSchedule(
	principal float64,
	annualRatePercent float64,
	tenureYears int,
) (domain.AmortizationSchedule, error) {
	terms := domain.LoanTerms{
		Principal:         principal,
		AnnualRatePercent: annualRatePercent,
		TenureYears:       tenureYears,
	}
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	return computeSchedule(terms), nil
}

// computeSchedule expects validated terms.
func computeSchedule(terms domain.LoanTerms) domain.AmortizationSchedule {
	monthlyRate := terms.MonthlyRate()
	n := terms.NumberOfPayments()
	payment := monthlyInstallment(terms.Principal, monthlyRate, n)
	balanceAfter := balanceFunc(terms.Principal, monthlyRate, n)

	schedule := make(domain.AmortizationSchedule, 0, n)
	balance := terms.Principal
	cumulativeInterest := 0.0

	for month := 1; month <= n; month++ {
		interest := balance * monthlyRate
		next := balanceAfter(month)
		principalPart := balance - next
		balance = next
		cumulativeInterest += interest

		schedule = append(schedule, domain.MonthlyPayment{
			Month:              month,
			Payment:            roundCurrency(payment),
			PrincipalComponent: roundCurrency(principalPart),
			InterestComponent:  roundCurrency(interest),
			CumulativeInterest: roundCurrency(cumulativeInterest),
			RemainingBalance:   roundCurrency(math.Max(balance, 0)),
		})
	}
	return schedule
}

// balanceFunc returns the outstanding balance after k payments,
// P·((1+r)^n − (1+r)^k) / ((1+r)^n − 1), evaluated as
// Expm1((k−n)·ln(1+r)) / Expm1(−n·ln(1+r)). It does not depend on earlier
// months, so installment error cannot compound, and it is exactly zero at k == n.
func balanceFunc(principal, monthlyRate float64, n int) func(k int) float64 {
	if monthlyRate == 0 {
		return func(k int) float64 {
			return principal * float64(n-k) / float64(n)
		}
	}
	logRate := math.Log1p(monthlyRate)
	denominator := math.Expm1(-float64(n) * logRate)
	return func(k int) float64 {
		return principal * math.Expm1(float64(k-n)*logRate) / denominator
	}
}

// Summarize returns the installment and loan totals without building the
// schedule.
func Summarize(terms domain.LoanTerms) (domain.LoanSummary, error) {
	if err := terms.Validate(); err != nil {
		return domain.LoanSummary{}, err
	}
	return summarize(terms), nil
}

func summarize(terms domain.LoanTerms) domain.LoanSummary {
	n := terms.NumberOfPayments()
	payment := monthlyInstallment(terms.Principal, terms.MonthlyRate(), n)
	total := payment * float64(n)

	return domain.LoanSummary{
		MonthlyPayment:   roundCurrency(payment),
		TotalPayment:     roundCurrency(total),
		TotalInterest:    roundCurrency(total - terms.Principal),
		NumberOfPayments: n,
	}
}
