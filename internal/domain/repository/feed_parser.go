package repository

import (
	"context"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// FeedParser decodes an exported sheet into product records
type FeedParser interface {
	// ParseProducts reads an export from disk
	ParseProducts(ctx context.Context, filePath string) ([]entity.Product, error)

	// ParseProductsFromBytes decodes an export already in memory
	ParseProductsFromBytes(ctx context.Context, data []byte, filename string) ([]entity.Product, error)
}
