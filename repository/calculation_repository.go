package repository

import (
	"context"

	"loan-origination/domain"
)

// CalculationRepository keeps a history of loan calculations.
type CalculationRepository interface {
	Save(ctx context.Context, record domain.CalculationRecord) error
	// List returns at most limit records, newest first.
	List(ctx context.Context, limit int) ([]domain.CalculationRecord, error)
}
