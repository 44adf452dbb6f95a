package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"loan-origination/domain"
	"loan-origination/logging"
	"loan-origination/repository"
)

type LoanService struct {
	repo   repository.CalculationRepository
	cache  repository.CacheRepository
	logger *logging.Logger
	now    func() time.Time
}

// NewLoanService creates a new LoanService with the given repository and cache.
func NewLoanService(
	repo repository.CalculationRepository,
	cache repository.CacheRepository,
	logger *logging.Logger,
) *LoanService {
	return &LoanService{
		repo:   repo,
		cache:  cache,
		logger: logger.WithComponent("loan_service"),
		now:    time.Now,
	}
}

// Schedule returns the amortization schedule for terms, served from the
// cache when an earlier call already computed it. Cache failures are logged
// and never fail the call.
func (s *LoanService) Schedule(
	ctx context.Context,
	terms domain.LoanTerms,
) (domain.AmortizationSchedule, error) {
	// Validar entrada
	if err := terms.Validate(); err != nil {
		return nil, err
	}

	key := scheduleCacheKey(terms)
	if cached, ok := s.cache.Get(ctx, key); ok {
		var schedule domain.AmortizationSchedule
		err := json.Unmarshal([]byte(cached), &schedule)
		if err == nil && len(schedule) == terms.NumberOfPayments() {
			s.logger.DebugContext(ctx, "schedule cache hit", "key", key)
			return schedule, nil
		}
		s.logger.WarnContext(ctx, "discarding unusable cached schedule", "key", key, "error", err)
	}

	schedule := computeSchedule(terms)

	data, err := json.Marshal(schedule)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to encode schedule for cache", "key", key, "error", err)
		return schedule, nil
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil {
		s.logger.WarnContext(ctx, "failed to cache schedule", "key", key, "error", err)
	}
	return schedule, nil
}

// Calculate returns the loan summary and records the calculation. A failed
// save is logged, not returned.
func (s *LoanService) Calculate(
	ctx context.Context,
	terms domain.LoanTerms,
) (domain.LoanSummary, error) {
	summary, err := Summarize(terms)
	if err != nil {
		return domain.LoanSummary{}, err
	}

	record := domain.CalculationRecord{
		ID:        uuid.NewString(),
		Terms:     terms,
		Summary:   summary,
		CreatedAt: s.now().UTC(),
	}
	// Guardar el registro (no crítico si falla)
	if err := s.repo.Save(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "failed to save loan calculation", "id", record.ID, "error", err)
	}

	return summary, nil
}

// History lists recorded calculations, newest first. A non-positive limit
// uses DefaultHistoryLimit; larger limits are capped at MaxHistoryLimit.
func (s *LoanService) History(
	ctx context.Context,
	limit int,
) ([]domain.CalculationRecord, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	records, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing calculations: %w", err)
	}
	return records, nil
}

func scheduleCacheKey(terms domain.LoanTerms) string {
	return scheduleCachePrefix +
		strconv.FormatFloat(terms.Principal, 'f', -1, 64) + ":" +
		strconv.FormatFloat(terms.AnnualRatePercent, 'f', -1, 64) + ":" +
		strconv.Itoa(terms.TenureYears)
}
