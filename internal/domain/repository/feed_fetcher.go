package repository

import (
	"context"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// FeedFetcher retrieves and decodes the remote feed in one go
type FeedFetcher interface {
	Fetch(ctx context.Context) (entity.ProductCatalog, error)
}
