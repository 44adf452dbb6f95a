package service

import (
	"fmt"
	"sort"

	"loan-origination/domain"
	"loan-origination/logging"
)

type TermRecommendationService struct {
	logger *logging.Logger
}

func NewTermRecommendationService(logger *logging.Logger) *TermRecommendationService {
	return &TermRecommendationService{
		logger: logger.WithComponent("term_recommendation"),
	}
}

// RecommendTenure evaluates every whole-year tenure in the input range and
// ranks the affordable ones by the requested preference.
func (s *TermRecommendationService) RecommendTenure(
	input domain.TenureRecommendationInput,
) (domain.TenureRecommendationResult, error) {

	if err := validateRecommendationInput(input); err != nil {
		return domain.TenureRecommendationResult{}, err
	}

	type candidate struct {
		years   int
		summary domain.LoanSummary
	}
	candidates := []candidate{}

	for years := input.MinTenureYears; years <= input.MaxTenureYears; years++ {
		summary := summarize(domain.LoanTerms{
			Principal:         input.Principal,
			AnnualRatePercent: input.AnnualRatePercent,
			TenureYears:       years,
		})
		if summary.MonthlyPayment > input.MaxMonthlyPayment {
			continue
		}
		candidates = append(candidates, candidate{years: years, summary: summary})
	}

	if len(candidates) == 0 {
		return domain.TenureRecommendationResult{}, ErrNoAffordableTenure
	}

	minInterest, maxInterest := candidates[0].summary.TotalInterest, candidates[0].summary.TotalInterest
	minPayment, maxPayment := candidates[0].summary.MonthlyPayment, candidates[0].summary.MonthlyPayment
	for _, c := range candidates[1:] {
		minInterest = min(minInterest, c.summary.TotalInterest)
		maxInterest = max(maxInterest, c.summary.TotalInterest)
		minPayment = min(minPayment, c.summary.MonthlyPayment)
		maxPayment = max(maxPayment, c.summary.MonthlyPayment)
	}
	minYears := candidates[0].years
	maxYears := candidates[len(candidates)-1].years

	recommendations := make([]domain.TenureRecommendation, 0, len(candidates))
	for _, c := range candidates {
		interestScore := normalizedScore(c.summary.TotalInterest, minInterest, maxInterest)
		paymentScore := normalizedScore(c.summary.MonthlyPayment, minPayment, maxPayment)
		termScore := normalizedScore(float64(c.years), float64(minYears), float64(maxYears))

		recommendations = append(recommendations, domain.TenureRecommendation{
			TenureYears:    c.years,
			MonthlyPayment: c.summary.MonthlyPayment,
			TotalInterest:  c.summary.TotalInterest,
			Score:          roundCurrency(weightedScore(input.Preference, interestScore, paymentScore, termScore)),
			Reason:         generateReason(input.Preference),
		})
	}

	// Mayor puntaje primero; ante empate gana el plazo más corto
	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].TenureYears < recommendations[j].TenureYears
	})

	best := recommendations[0]
	s.logger.Debug("tenure recommended",
		"tenure_years", best.TenureYears,
		"candidates", len(recommendations),
		"preference", input.Preference,
	)

	return domain.TenureRecommendationResult{
		RecommendedTenureYears: best.TenureYears,
		Recommendations:        recommendations,
	}, nil
}

func validateRecommendationInput(input domain.TenureRecommendationInput) error {
	// Principal and rate share the engine's rules; the tenure is checked below.
	loanTerms := domain.LoanTerms{
		Principal:         input.Principal,
		AnnualRatePercent: input.AnnualRatePercent,
		TenureYears:       1,
	}
	if err := loanTerms.Validate(); err != nil {
		return err
	}
	if input.MinTenureYears <= 0 || input.MaxTenureYears <= 0 {
		return domain.NewValidationError(domain.KindInvalidTenure, "plazos inválidos")
	}
	if input.MinTenureYears > input.MaxTenureYears {
		return domain.NewValidationError(domain.KindInvalidTenure, "plazo mínimo mayor que máximo")
	}
	if input.MaxTenureYears > domain.MaxTenureYears {
		return domain.NewValidationError(domain.KindInvalidTenure,
			fmt.Sprintf("plazo máximo excede el límite de %d años", domain.MaxTenureYears))
	}
	if input.MaxTenureYears-input.MinTenureYears > MaxTenureRangeYears {
		return domain.NewValidationError(domain.KindInvalidTenure,
			fmt.Sprintf("rango de plazos excede el máximo de %d años", MaxTenureRangeYears))
	}
	if input.MaxMonthlyPayment <= 0 {
		return ErrInvalidMaxPayment
	}
	switch input.Preference {
	case domain.PreferenceMinimizeInterest, domain.PreferenceMinimizePayment, domain.PreferenceBalanced:
		return nil
	default:
		return ErrInvalidPreference
	}
}

// normalizedScore maps value onto 0..10 where the lowest value scores 10.
func normalizedScore(value, lowest, highest float64) float64 {
	if highest <= lowest {
		return 10
	}
	return 10 * (highest - value) / (highest - lowest)
}

func weightedScore(preference string, interestScore, paymentScore, termScore float64) float64 {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return 0.6*interestScore + 0.2*paymentScore + 0.2*termScore
	case domain.PreferenceMinimizePayment:
		return 0.2*interestScore + 0.6*paymentScore + 0.2*termScore
	default:
		return 0.4*interestScore + 0.4*paymentScore + 0.2*termScore
	}
}

func generateReason(preference string) string {
	switch preference {
	case domain.PreferenceMinimizeInterest:
		return "Plazo optimizado para minimizar el costo total de intereses"
	case domain.PreferenceMinimizePayment:
		return "Plazo optimizado para minimizar el pago mensual"
	case domain.PreferenceBalanced:
		return "Balance entre pago mensual y costo total"
	}
	return "Recomendación basada en los parámetros proporcionados"
}
