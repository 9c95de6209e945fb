package repository

import (
	"context"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

// ProductRepository holds the most recently loaded catalog
type ProductRepository interface {
	// UpdateCatalog replaces the whole catalog
	UpdateCatalog(ctx context.Context, catalog entity.ProductCatalog) error

	// GetCatalog returns the current catalog, nil when nothing was loaded yet
	GetCatalog(ctx context.Context) (*entity.ProductCatalog, error)

	// GetAll products in feed order
	GetAll(ctx context.Context) ([]entity.Product, error)

	// GetByID product lookup by feed product id, entity.ErrProductNotFound when absent
	GetByID(ctx context.Context, id int) (*entity.Product, error)

	// Search case-insensitive match on name, brand, model, SKU and OEM code
	Search(ctx context.Context, query string) ([]entity.Product, error)

	// GetByCategory products of one category, matched case-insensitively
	GetByCategory(ctx context.Context, category string) ([]entity.Product, error)

	// Categories sorted distinct category names
	Categories(ctx context.Context) ([]string, error)
}
