package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/yourusername/parts-catalog/internal/domain/entity"
	"github.com/yourusername/parts-catalog/internal/usecase"
	"golang.org/x/sync/semaphore"
)

const (
	maxUploadSize  = 5 * 1024 * 1024
	historyEntries = 5

	// maxConcurrentUpdates updates handled at once; further updates wait
	maxConcurrentUpdates = 16
)

// BotHandler Telegram front end for the parts catalog
type BotHandler struct {
	bot            *tgbotapi.BotAPI
	catalogUseCase usecase.CatalogUseCase
	httpClient     *http.Client
	inFlight       *semaphore.Weighted
	logger         zerolog.Logger
}

// NewBotHandler connects to the Bot API with token
func NewBotHandler(token string, catalogUseCase usecase.CatalogUseCase, logger zerolog.Logger) (*BotHandler, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotHandler{
		bot:            bot,
		catalogUseCase: catalogUseCase,
		httpClient:     http.DefaultClient,
		inFlight:       semaphore.NewWeighted(maxConcurrentUpdates),
		logger:         logger.With().Str("component", "telegram").Logger(),
	}, nil
}

// Start polls for updates until ctx is cancelled
func (h *BotHandler) Start(ctx context.Context) error {
	h.logger.Info().Str("bot", h.bot.Self.UserName).Msg("bot started")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Msg("bot stopping")
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			message := update.Message
			if err := h.dispatch(ctx, func() { h.handleMessage(ctx, message) }); err != nil {
				h.logger.Info().Msg("bot stopping")
				return err
			}
		}
	}
}

// dispatch runs fn on its own goroutine once a handler slot is free
func (h *BotHandler) dispatch(ctx context.Context, fn func()) error {
	if err := h.inFlight.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer h.inFlight.Release(1)
		fn()
	}()
	return nil
}

func (h *BotHandler) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.Document != nil {
		h.handleDocumentMessage(ctx, message)
		return
	}

	if message.IsCommand() {
		h.handleCommand(ctx, message)
		return
	}

	// plain text is treated as a search
	if text := strings.TrimSpace(message.Text); text != "" {
		h.handleSearch(ctx, message.Chat.ID, "", text)
	}
}

func (h *BotHandler) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		h.sendMessage(chatID, welcomeMessage)
	case "help":
		h.sendMessage(chatID, helpMessage)
	case "products":
		h.handleSearch(ctx, chatID, "", "")
	case "categories":
		h.handleCategoriesCommand(ctx, chatID)
	case "category":
		if args == "" {
			h.sendMessage(chatID, "Usage: /category <name>")
			return
		}
		h.handleSearch(ctx, chatID, args, "")
	case "search":
		if args == "" {
			h.sendMessage(chatID, "Usage: /search <text>")
			return
		}
		h.handleSearch(ctx, chatID, "", args)
	case "product":
		h.handleProductCommand(ctx, chatID, args)
	case "refresh":
		h.handleRefreshCommand(ctx, chatID)
	case "status":
		h.handleStatusCommand(ctx, chatID)
	default:
		h.sendMessage(chatID, "Unknown command. See /help.")
	}
}

func (h *BotHandler) handleSearch(ctx context.Context, chatID int64, category, query string) {
	products, err := h.catalogUseCase.Search(ctx, category, query)
	if err != nil {
		h.replyError(chatID, err)
		return
	}

	title := "📦 Products"
	switch {
	case category != "":
		title = fmt.Sprintf("🗂 %s", category)
	case query != "":
		title = fmt.Sprintf("🔎 %q", query)
	}
	h.sendLong(chatID, formatProductList(title, products))
}

func (h *BotHandler) handleCategoriesCommand(ctx context.Context, chatID int64) {
	categories, err := h.catalogUseCase.Categories(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.sendMessage(chatID, formatCategories(categories))
}

func (h *BotHandler) handleProductCommand(ctx context.Context, chatID int64, arg string) {
	id, err := parseProductID(arg)
	if err != nil {
		h.sendMessage(chatID, "Usage: /product <id>")
		return
	}

	product, err := h.catalogUseCase.Product(ctx, id)
	if err != nil && !errors.Is(err, entity.ErrProductNotFound) {
		h.replyError(chatID, err)
		return
	}
	h.sendMessage(chatID, productReply(id, product, err))
}

func (h *BotHandler) handleRefreshCommand(ctx context.Context, chatID int64) {
	h.sendMessage(chatID, "⏳ Refreshing catalog...")

	count, err := h.catalogUseCase.Refresh(ctx)
	if err != nil {
		h.replyError(chatID, err)
		return
	}
	h.sendMessage(chatID, fmt.Sprintf("✅ Catalog refreshed: %d products.", count))
}

func (h *BotHandler) handleStatusCommand(ctx context.Context, chatID int64) {
	var sb strings.Builder

	info, err := h.catalogUseCase.CatalogInfo(ctx)
	if err != nil {
		sb.WriteString(errorReply(err))
	} else {
		sb.WriteString(info)
	}

	history, err := h.catalogUseCase.FetchHistory(ctx, historyEntries)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read fetch history")
	} else {
		sb.WriteString("\n\n")
		sb.WriteString(formatFetchHistory(history))
	}

	h.sendLong(chatID, sb.String())
}

// handleDocumentMessage replaces the catalog with an uploaded export
func (h *BotHandler) handleDocumentMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	doc := message.Document

	if doc.FileSize > maxUploadSize {
		h.sendMessage(chatID, "❌ Files over 5MB are not accepted.")
		return
	}

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".csv" && ext != ".xlsx" {
		h.sendMessage(chatID, "❌ Only .csv and .xlsx exports are accepted.")
		return
	}

	h.sendMessage(chatID, "⏳ Importing catalog...")

	data, err := h.downloadFile(ctx, doc.FileID)
	if err != nil {
		h.logger.Error().Err(err).Str("file", doc.FileName).Msg("file download failed")
		h.sendMessage(chatID, "❌ Could not download the file.")
		return
	}

	count, err := h.catalogUseCase.ImportFile(ctx, data, doc.FileName)
	if err != nil {
		h.logger.Error().Err(err).Str("file", doc.FileName).Msg("catalog import failed")
		h.sendMessage(chatID, fmt.Sprintf("❌ Import failed: %v", err))
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("✅ Catalog imported from %s: %d products.\n\n/status - Catalog summary\n/products - All products", doc.FileName, count))
}

func (h *BotHandler) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := h.bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(h.bot.Token), nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxUploadSize+1))
}

func (h *BotHandler) replyError(chatID int64, err error) {
	h.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("catalog request failed")
	h.sendMessage(chatID, errorReply(err))
}

func (h *BotHandler) sendLong(chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		h.sendMessage(chatID, chunk)
	}
}

func (h *BotHandler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send message")
	}
}

const welcomeMessage = `Hello! 👋

I answer questions about the spare parts catalog.

Send me a part name, brand, model or code and I will search the catalog for you.
See /help for every command.`

const helpMessage = `🤖 Commands:

/products - All products
/categories - Category list
/category <name> - Products in one category
/search <text> - Search by name, brand, model, SKU or OEM code
/product <id> - Full product card
/refresh - Reload the catalog now
/status - Catalog summary and recent fetches

Upload a .csv or .xlsx export to replace the catalog.`
