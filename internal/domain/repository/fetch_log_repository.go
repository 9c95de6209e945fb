package repository

import (
	"context"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// FetchLogRepository keeps a bounded history of fetch attempts
type FetchLogRepository interface {
	// Record inserts or updates an attempt by ID
	Record(ctx context.Context, attempt entity.FetchAttempt) error

	// History newest first, limit <= 0 means everything kept
	History(ctx context.Context, limit int) ([]entity.FetchAttempt, error)

	// Last most recent attempt, nil when nothing was recorded
	Last(ctx context.Context) (*entity.FetchAttempt, error)
}
