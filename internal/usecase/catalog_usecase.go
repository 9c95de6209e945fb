package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

// DefaultCatalogTTL how long a fetched catalog is served before refetching
const DefaultCatalogTTL = 5 * time.Minute

// CatalogUseCase read side of the parts catalog
type CatalogUseCase interface {
	// Products current catalog, refetched once the freshness window expires
	Products(ctx context.Context) ([]entity.Product, error)

	// Refresh forces a refetch and returns the number of records loaded
	Refresh(ctx context.Context) (int, error)

	// Product lookup by feed product id
	Product(ctx context.Context, id int) (*entity.Product, error)

	// Categories sorted distinct category names
	Categories(ctx context.Context) ([]string, error)

	// Search filters by category (case-insensitive, empty = all) and free
	// text (empty = all)
	Search(ctx context.Context, category, query string) ([]entity.Product, error)

	// CatalogInfo human readable summary of the loaded catalog
	CatalogInfo(ctx context.Context) (string, error)

	// FetchHistory most recent fetch attempts, newest first
	FetchHistory(ctx context.Context, limit int) ([]entity.FetchAttempt, error)

	// ImportFile loads an uploaded CSV/XLSX export in place of the remote feed.
	// The imported catalog does not expire; Refresh switches back to the feed.
	ImportFile(ctx context.Context, data []byte, filename string) (int, error)

	// LoadFile same as ImportFile for an export on disk
	LoadFile(ctx context.Context, path string) (int, error)
}

// CatalogOptions tuning for NewCatalogUseCase
type CatalogOptions struct {
	TTL           time.Duration                    // DefaultCatalogTTL when zero
	Now           func() time.Time                 // time.Now when nil
	ImportParsers map[string]repository.FeedParser // keyed by file extension, e.g. ".csv"
}

type catalogUseCase struct {
	fetcher       repository.FeedFetcher
	productRepo   repository.ProductRepository
	fetchLog      repository.FetchLogRepository
	importParsers map[string]repository.FeedParser
	ttl           time.Duration
	now           func() time.Time
	loads         singleflight.Group
	logger        zerolog.Logger
}

// NewCatalogUseCase wires the catalog read side
func NewCatalogUseCase(
	fetcher repository.FeedFetcher,
	productRepo repository.ProductRepository,
	fetchLog repository.FetchLogRepository,
	opts CatalogOptions,
	logger zerolog.Logger,
) CatalogUseCase {
	if opts.TTL <= 0 {
		opts.TTL = DefaultCatalogTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &catalogUseCase{
		fetcher:       fetcher,
		productRepo:   productRepo,
		fetchLog:      fetchLog,
		importParsers: opts.ImportParsers,
		ttl:           opts.TTL,
		now:           opts.Now,
		logger:        logger.With().Str("component", "catalog").Logger(),
	}
}

func (u *catalogUseCase) Products(ctx context.Context) ([]entity.Product, error) {
	if err := u.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return u.productRepo.GetAll(ctx)
}

func (u *catalogUseCase) Refresh(ctx context.Context) (int, error) {
	catalog, err := u.load(ctx)
	if err != nil {
		return 0, err
	}
	return catalog.Len(), nil
}

func (u *catalogUseCase) Product(ctx context.Context, id int) (*entity.Product, error) {
	if err := u.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return u.productRepo.GetByID(ctx, id)
}

func (u *catalogUseCase) Categories(ctx context.Context) ([]string, error) {
	if err := u.ensureFresh(ctx); err != nil {
		return nil, err
	}
	return u.productRepo.Categories(ctx)
}

func (u *catalogUseCase) Search(ctx context.Context, category, query string) ([]entity.Product, error) {
	if err := u.ensureFresh(ctx); err != nil {
		return nil, err
	}

	category = strings.TrimSpace(category)
	query = strings.TrimSpace(query)

	switch {
	case category == "" && query == "":
		return u.productRepo.GetAll(ctx)
	case category == "":
		return u.productRepo.Search(ctx, query)
	}

	products, err := u.productRepo.GetByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return products, nil
	}
	matched := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if entity.MatchesQuery(p, query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

func (u *catalogUseCase) CatalogInfo(ctx context.Context) (string, error) {
	if err := u.ensureFresh(ctx); err != nil {
		return "", err
	}
	catalog, err := u.productRepo.GetCatalog(ctx)
	if err != nil {
		return "", err
	}
	if catalog == nil {
		return "", fmt.Errorf("catalog not loaded")
	}

	categories := make(map[string]int)
	stock := make(map[entity.StockStatus]int)
	for _, p := range catalog.Products {
		categories[p.Category]++
		stock[p.StockStatus()]++
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Catalog: %s", catalog.Source)
	if catalog.Imported {
		sb.WriteString(" (imported)")
	}
	fmt.Fprintf(&sb, "\nUpdated: %s\n", catalog.FetchedAt.Format("2006-01-02 15:04"))
	if line := u.lastFetchLine(ctx); line != "" {
		sb.WriteString(line)
	}
	fmt.Fprintf(&sb, "Products: %d\n", len(catalog.Products))
	fmt.Fprintf(&sb, "Stock: %d %s, %d %s, %d %s\n",
		stock[entity.StockAvailable], strings.ToLower(entity.StockAvailable.Label()),
		stock[entity.StockLow], strings.ToLower(entity.StockLow.Label()),
		stock[entity.StockOut], strings.ToLower(entity.StockOut.Label()))
	fmt.Fprintf(&sb, "\nCategories (%d):\n", len(names))
	for _, name := range names {
		fmt.Fprintf(&sb, "  • %s: %d\n", name, categories[name])
	}
	return sb.String(), nil
}

// lastFetchLine "Last fetch: ..." for the most recent attempt, empty when none
func (u *catalogUseCase) lastFetchLine(ctx context.Context) string {
	if u.fetchLog == nil {
		return ""
	}
	last, err := u.fetchLog.Last(ctx)
	if err != nil {
		u.logger.Warn().Err(err).Msg("failed to read last fetch")
		return ""
	}
	if last == nil {
		return ""
	}
	line := fmt.Sprintf("Last fetch: %s %s", last.StartedAt.Format("2006-01-02 15:04"), last.State)
	if last.Err != "" {
		line += " (" + last.Err + ")"
	}
	return line + "\n"
}

func (u *catalogUseCase) FetchHistory(ctx context.Context, limit int) ([]entity.FetchAttempt, error) {
	if u.fetchLog == nil {
		return nil, nil
	}
	return u.fetchLog.History(ctx, limit)
}

func (u *catalogUseCase) ImportFile(ctx context.Context, data []byte, filename string) (int, error) {
	p, err := u.parserFor(filename)
	if err != nil {
		return 0, err
	}

	products, err := p.ParseProductsFromBytes(ctx, data, filename)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	return u.replaceWithImport(ctx, products, filename)
}

func (u *catalogUseCase) LoadFile(ctx context.Context, path string) (int, error) {
	p, err := u.parserFor(path)
	if err != nil {
		return 0, err
	}

	products, err := p.ParseProducts(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return u.replaceWithImport(ctx, products, path)
}

func (u *catalogUseCase) parserFor(filename string) (repository.FeedParser, error) {
	p, ok := u.importParsers[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return nil, fmt.Errorf("unsupported catalog file %q", filename)
	}
	return p, nil
}

func (u *catalogUseCase) replaceWithImport(ctx context.Context, products []entity.Product, filename string) (int, error) {
	catalog := entity.ProductCatalog{
		Products:  products,
		FetchedAt: u.now(),
		Source:    filepath.Base(filename),
		Imported:  true,
	}
	if err := u.productRepo.UpdateCatalog(ctx, catalog); err != nil {
		return 0, fmt.Errorf("failed to update catalog: %w", err)
	}

	u.logger.Info().Str("file", catalog.Source).Int("records", len(products)).Msg("catalog imported")
	return len(products), nil
}

// ensureFresh loads the feed unless an imported catalog or one younger than
// the TTL is held
func (u *catalogUseCase) ensureFresh(ctx context.Context) error {
	catalog, err := u.productRepo.GetCatalog(ctx)
	if err != nil {
		return err
	}
	if catalog != nil && (catalog.Imported || u.now().Sub(catalog.FetchedAt) < u.ttl) {
		return nil
	}
	_, err = u.load(ctx)
	return err
}

// load fetches the feed and replaces the held catalog. Concurrent callers
// share one fetch, which is detached from the first caller's cancellation and
// bounded by the HTTP client timeout instead.
func (u *catalogUseCase) load(ctx context.Context) (entity.ProductCatalog, error) {
	ctx = context.WithoutCancel(ctx)
	v, err, shared := u.loads.Do("catalog", func() (interface{}, error) {
		catalog, err := u.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		if err := u.productRepo.UpdateCatalog(ctx, catalog); err != nil {
			return nil, fmt.Errorf("failed to update catalog: %w", err)
		}
		return catalog, nil
	})
	if err != nil {
		return entity.ProductCatalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	if shared {
		u.logger.Debug().Msg("catalog load shared with concurrent caller")
	}
	return v.(entity.ProductCatalog), nil
}
