package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

type memoryProductRepository struct {
	mu      sync.RWMutex
	catalog *entity.ProductCatalog
	byID    map[int]int // product id -> index of first occurrence
}

// NewMemoryProductRepository in-memory catalog holder
func NewMemoryProductRepository() repository.ProductRepository {
	return &memoryProductRepository{
		byID: make(map[int]int),
	}
}

// UpdateCatalog replaces the whole catalog
func (m *memoryProductRepository) UpdateCatalog(ctx context.Context, catalog entity.ProductCatalog) error {
	products := make([]entity.Product, len(catalog.Products))
	copy(products, catalog.Products)
	catalog.Products = products

	byID := make(map[int]int, len(products))
	for i, p := range products {
		if _, dup := byID[p.ProductID]; !dup {
			byID[p.ProductID] = i
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = &catalog
	m.byID = byID
	return nil
}

// GetCatalog current catalog, nil when nothing was loaded
func (m *memoryProductRepository) GetCatalog(ctx context.Context) (*entity.ProductCatalog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, nil
	}
	c := *m.catalog
	c.Products = m.snapshot()
	return &c, nil
}

// GetAll products in feed order
func (m *memoryProductRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshot(), nil
}

// GetByID lookup by feed product id
func (m *memoryProductRepository) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, exists := m.byID[id]
	if !exists || m.catalog == nil {
		return nil, fmt.Errorf("%w: %d", entity.ErrProductNotFound, id)
	}
	product := m.catalog.Products[idx]
	return &product, nil
}

// Search case-insensitive substring match; codes also match ignoring
// punctuation, so "flt001" finds "FLT-001". An empty query matches everything.
func (m *memoryProductRepository) Search(ctx context.Context, query string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, nil
	}

	compactQuery := normalizeAlphaNum(query)

	var results []entity.Product
	for _, product := range m.catalog.Products {
		if entity.MatchesQuery(product, query) {
			results = append(results, product)
			continue
		}
		if compactQuery != "" && matchCodes(compactQuery, product.SKU, product.OEMCode) {
			results = append(results, product)
		}
	}
	return results, nil
}

// GetByCategory case-insensitive category match, feed order
func (m *memoryProductRepository) GetByCategory(ctx context.Context, category string) ([]entity.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	category = strings.TrimSpace(category)
	var results []entity.Product
	if m.catalog == nil {
		return results, nil
	}
	for _, product := range m.catalog.Products {
		if strings.EqualFold(product.Category, category) {
			results = append(results, product)
		}
	}
	return results, nil
}

// Categories sorted distinct names
func (m *memoryProductRepository) Categories(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.catalog == nil {
		return nil, nil
	}
	return entity.Categories(m.catalog.Products), nil
}

// snapshot copy of the product slice; caller holds the lock
func (m *memoryProductRepository) snapshot() []entity.Product {
	if m.catalog == nil {
		return []entity.Product{}
	}
	out := make([]entity.Product, len(m.catalog.Products))
	copy(out, m.catalog.Products)
	return out
}

func matchCodes(compactQuery string, codes ...string) bool {
	for _, code := range codes {
		if code == entity.NotAvailable {
			continue
		}
		if strings.Contains(normalizeAlphaNum(code), compactQuery) {
			return true
		}
	}
	return false
}

func normalizeAlphaNum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}
