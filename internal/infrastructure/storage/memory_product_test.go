package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
)

func testCatalog() entity.ProductCatalog {
	return entity.ProductCatalog{
		Products: []entity.Product{
			{ProductID: 3, Name: "Filtro de aceite", Brand: "Honda", Category: "Motor", SKU: "FLT-001", OEMCode: "15400-PLM-A01"},
			{ProductID: 1, Name: "Pastillas de freno", Brand: "Toyota", Category: "Frenos", CompatibleModel: "Corolla", SKU: "PST-010", OEMCode: entity.NotAvailable},
			{ProductID: 2, Name: "Bujía", Brand: "NGK", Category: "Motor", SKU: "BJ-7", OEMCode: "BKR6E"},
			{ProductID: 3, Name: "Duplicado", Category: "Motor"},
		},
		FetchedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
		Source:    "test",
	}
}

func TestMemoryProductRepositoryEmpty(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	catalog, err := repo.GetCatalog(ctx)
	require.NoError(t, err)
	assert.Nil(t, catalog)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = repo.GetByID(ctx, 1)
	assert.Error(t, err)

	found, err := repo.Search(ctx, "x")
	require.NoError(t, err)
	assert.Empty(t, found)

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestMemoryProductRepositoryCatalog(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.UpdateCatalog(ctx, testCatalog()))

	catalog, err := repo.GetCatalog(ctx)
	require.NoError(t, err)
	require.NotNil(t, catalog)
	assert.Equal(t, "test", catalog.Source)
	assert.Equal(t, 4, catalog.Len())

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCatalog().Products, all)

	// callers cannot mutate the stored catalog
	all[0].Name = "changed"
	again, _ := repo.GetAll(ctx)
	assert.Equal(t, "Filtro de aceite", again[0].Name)
}

func TestMemoryProductRepositoryGetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.UpdateCatalog(ctx, testCatalog()))

	p, err := repo.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Filtro de aceite", p.Name)

	_, err = repo.GetByID(ctx, 99)
	assert.Error(t, err)
}

func TestMemoryProductRepositorySearch(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.UpdateCatalog(ctx, testCatalog()))

	names := func(ps []entity.Product) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"honda", []string{"Filtro de aceite"}},
		{"COROLLA", []string{"Pastillas de freno"}},
		{"flt001", []string{"Filtro de aceite"}},
		{"15400plm", []string{"Filtro de aceite"}},
		{"bkr6e", []string{"Bujía"}},
		{"notavailable", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			found, err := repo.Search(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(found))
		})
	}

	all, err := repo.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestMemoryProductRepositoryCategories(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()
	require.NoError(t, repo.UpdateCatalog(ctx, testCatalog()))

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Frenos", "Motor"}, cats)

	motor, err := repo.GetByCategory(ctx, " motor ")
	require.NoError(t, err)
	assert.Len(t, motor, 3)
}

func TestMemoryProductRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	_, err := repo.GetByID(ctx, 3)
	assert.ErrorIs(t, err, entity.ErrProductNotFound)

	require.NoError(t, repo.UpdateCatalog(ctx, testCatalog()))
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, entity.ErrProductNotFound)
}

func TestMemoryProductRepositoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryProductRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.UpdateCatalog(ctx, testCatalog())
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.Search(ctx, "motor")
			_, _ = repo.GetAll(ctx)
		}()
	}
	wg.Wait()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
