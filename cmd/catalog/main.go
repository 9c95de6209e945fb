package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/yourusername/parts-catalog/config"
	"github.com/yourusername/parts-catalog/internal/delivery/telegram"
	"github.com/yourusername/parts-catalog/internal/domain/repository"
	"github.com/yourusername/parts-catalog/internal/infrastructure/parser"
	"github.com/yourusername/parts-catalog/internal/infrastructure/sheets"
	"github.com/yourusername/parts-catalog/internal/infrastructure/storage"
	"github.com/yourusername/parts-catalog/internal/usecase"
)

func main() {
	file := flag.String("file", "", "Load the catalog from a local .csv or .xlsx export instead of the feed")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)
	logger := zlog.Logger

	feedParser, err := parser.New(cfg.FeedFormat, logger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create feed parser")
	}

	fetchLog := storage.NewMemoryFetchLogRepository(cfg.FetchLogSize)
	productRepo := storage.NewMemoryProductRepository()

	fetcher := sheets.NewClient(sheets.ClientConfig{
		URL:        cfg.FeedURL,
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
	}, feedParser, fetchLog, logger)

	catalog := usecase.NewCatalogUseCase(fetcher, productRepo, fetchLog, usecase.CatalogOptions{
		TTL: cfg.CatalogTTL,
		ImportParsers: map[string]repository.FeedParser{
			".csv":  parser.NewCSVParser(logger),
			".xlsx": parser.NewExcelParser(logger),
		},
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *file != "" {
		n, err := catalog.LoadFile(ctx, *file)
		if err != nil {
			zlog.Fatal().Err(err).Str("file", *file).Msg("failed to load catalog file")
		}
		zlog.Info().Int("products", n).Str("file", *file).Msg("catalog loaded from file")
	}

	if !cfg.BotEnabled() {
		code := printSummary(ctx, catalog)
		stop()
		os.Exit(code)
	}

	bot, err := telegram.NewBotHandler(cfg.TelegramToken, catalog, logger)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create bot")
	}

	// warm the cache so the first user request is answered immediately
	if *file == "" {
		if n, err := catalog.Refresh(ctx); err != nil {
			zlog.Warn().Err(err).Msg("initial catalog load failed")
		} else {
			zlog.Info().Int("products", n).Msg("catalog loaded")
		}
	}

	if err := bot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		zlog.Fatal().Err(err).Msg("bot stopped")
	}
	zlog.Info().Msg("shutdown complete")
}

// printSummary one-shot mode: fetch once and print the catalog summary
func printSummary(ctx context.Context, catalog usecase.CatalogUseCase) int {
	info, err := catalog.CatalogInfo(ctx)
	if err != nil {
		zlog.Error().Err(err).Msg("failed to load catalog")
		return 1
	}
	fmt.Fprint(os.Stdout, info)
	return 0
}
