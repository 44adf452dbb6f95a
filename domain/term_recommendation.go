package domain

const (
	PreferenceMinimizeInterest = "minimize_interest"
	PreferenceMinimizePayment  = "minimize_payment"
	PreferenceBalanced         = "balanced"
)

type TenureRecommendationInput struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	MinTenureYears    int     `json:"min_tenure_years"`
	MaxTenureYears    int     `json:"max_tenure_years"`
	MaxMonthlyPayment float64 `json:"max_monthly_payment"`
	Preference        string  `json:"preference"`
}

type TenureRecommendation struct {
	TenureYears    int     `json:"tenure_years"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalInterest  float64 `json:"total_interest"`
	Score          float64 `json:"score"`
	Reason         string  `json:"reason"`
}

type TenureRecommendationResult struct {
	RecommendedTenureYears int                    `json:"recommended_tenure_years"`
	Recommendations        []TenureRecommendation `json:"recommendations"`
}
