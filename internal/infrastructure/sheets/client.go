package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
)

// DefaultFeedURL CSV export of the published parts inventory tab
const DefaultFeedURL = "https://docs.google.com/spreadsheets/d/1TQXwskKWUQ3NQnXcVx4pE1Zpxtu8tns9/gviz/tq?tqx=out:csv&gid=1620448077"

// ClientConfig wiring for the feed client
type ClientConfig struct {
	URL        string
	HTTPClient *http.Client     // http.DefaultClient when nil
	Now        func() time.Time // time.Now when nil
}

type client struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
	parser     repository.FeedParser
	fetchLog   repository.FetchLogRepository
	logger     zerolog.Logger
}

// NewClient feed fetcher for a published sheet export. fetchLog may be nil.
func NewClient(cfg ClientConfig, parser repository.FeedParser, fetchLog repository.FetchLogRepository, logger zerolog.Logger) repository.FeedFetcher {
	if cfg.URL == "" {
		cfg.URL = DefaultFeedURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &client{
		url:        cfg.URL,
		httpClient: cfg.HTTPClient,
		now:        cfg.Now,
		parser:     parser,
		fetchLog:   fetchLog,
		logger:     logger.With().Str("component", "sheets_client").Logger(),
	}
}

// Fetch downloads and decodes the whole feed. Each call is independent:
// Idle -> Fetching -> Success | Failure, recorded in the fetch log.
func (c *client) Fetch(ctx context.Context) (entity.ProductCatalog, error) {
	attempt := entity.FetchAttempt{
		ID:     uuid.New().String(),
		Source: c.url,
		State:  entity.FetchIdle,
	}

	attempt.State = entity.FetchFetching
	attempt.StartedAt = c.now()
	c.record(ctx, attempt)

	products, err := c.download(ctx)
	attempt.FinishedAt = c.now()

	if err != nil {
		attempt.State = entity.FetchFailure
		attempt.Err = err.Error()
		c.record(ctx, attempt)
		c.logger.Warn().Err(err).Str("attempt", attempt.ID).Msg("feed fetch failed")
		return entity.ProductCatalog{}, err
	}

	attempt.State = entity.FetchSuccess
	attempt.Records = len(products)
	c.record(ctx, attempt)
	c.logger.Info().
		Str("attempt", attempt.ID).
		Int("records", len(products)).
		Dur("took", attempt.Duration()).
		Msg("feed fetched")

	return entity.ProductCatalog{
		Products:  products,
		FetchedAt: attempt.FinishedAt,
		Source:    c.url,
	}, nil
}

func (c *client) download(ctx context.Context) ([]entity.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &entity.TransportError{URL: c.url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &entity.TransportError{URL: c.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &entity.TransportError{URL: c.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &entity.TransportError{URL: c.url, Err: fmt.Errorf("read body: %w", err)}
	}

	products, err := c.parser.ParseProductsFromBytes(ctx, body, c.url)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return products, nil
}

func (c *client) record(ctx context.Context, attempt entity.FetchAttempt) {
	if c.fetchLog == nil {
		return
	}
	if err := c.fetchLog.Record(ctx, attempt); err != nil {
		c.logger.Debug().Err(err).Msg("fetch log write failed")
	}
}
