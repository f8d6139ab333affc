package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	listingDomain "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/domain"
	subscriberService "github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/config"
)

const (
	welcomeText = `I can notify you about new advertisements for houses & apartments to rent in Limassol district.

You can set price range using these commands:

/set_min_price <price> - sets minimum shown price
/set_max_price <price> - sets maximum shown price
/range - shows your current price range`

	invalidPriceText = "Please use numbers to set the price. For example: 700.0"
	minConflictText  = "Min price must be lesser than max price"
	maxConflictText  = "Max price must be greater than min price"
)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg         *config.Config
	subscribers *subscriberService.Service
}

// New creates a new Telegram handler
func New(cfg *config.Config, subscribers *subscriberService.Service) *Handler {
	return &Handler{
		cfg:         cfg,
		subscribers: subscribers,
	}
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.handleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/set_min_price", bot.MatchTypePrefix, h.handleSetMinPrice)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/set_max_price", bot.MatchTypePrefix, h.handleSetMaxPrice)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/range", bot.MatchTypeExact, h.handleRange)
}

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	if _, err := h.subscribers.Register(ctx, chatID); err != nil {
		slog.Error("Failed to register subscriber", "chat_id", chatID, "error", err)
	}

	h.reply(ctx, b, chatID, welcomeText)
}

func (h *Handler) handleSetMinPrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	price, ok := parsePriceArg(update.Message.Text)
	if !ok {
		h.reply(ctx, b, chatID, invalidPriceText)
		return
	}

	subscriber, err := h.subscribers.SetMinPrice(ctx, chatID, price)
	if err != nil {
		if errors.Is(err, subscriberService.ErrRangeConflict) {
			h.reply(ctx, b, chatID, minConflictText)
			return
		}
		slog.Error("Failed to set min price", "chat_id", chatID, "error", err)
		h.reply(ctx, b, chatID, "Something went wrong, please try again later")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("Minimum shown price is set to €%s", subscriber.MinPrice))
}

func (h *Handler) handleSetMaxPrice(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	price, ok := parsePriceArg(update.Message.Text)
	if !ok {
		h.reply(ctx, b, chatID, invalidPriceText)
		return
	}

	subscriber, err := h.subscribers.SetMaxPrice(ctx, chatID, price)
	if err != nil {
		if errors.Is(err, subscriberService.ErrRangeConflict) {
			h.reply(ctx, b, chatID, maxConflictText)
			return
		}
		slog.Error("Failed to set max price", "chat_id", chatID, "error", err)
		h.reply(ctx, b, chatID, "Something went wrong, please try again later")
		return
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("Maximum shown price is set to €%s", subscriber.MaxPrice))
}

func (h *Handler) handleRange(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	subscriber, err := h.subscribers.Get(ctx, chatID)
	if err != nil {
		slog.Error("Failed to load subscriber", "chat_id", chatID, "error", err)
		h.reply(ctx, b, chatID, "Something went wrong, please try again later")
		return
	}

	minText := "not set"
	if subscriber.MinPrice != nil {
		minText = "€" + subscriber.MinPrice.String()
	}
	maxText := "not set"
	if subscriber.MaxPrice != nil {
		maxText = "€" + subscriber.MaxPrice.String()
	}

	h.reply(ctx, b, chatID, fmt.Sprintf("Minimum price: %s\nMaximum price: %s", minText, maxText))
}

func (h *Handler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		slog.Error("Failed to send reply", "chat_id", chatID, "error", err)
	}
}

// parsePriceArg extracts the price argument from a "/command <price>" text.
func parsePriceArg(text string) (listingDomain.Price, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return listingDomain.Price{}, false
	}

	price, err := listingDomain.NewPrice(parts[1])
	if err != nil {
		return listingDomain.Price{}, false
	}
	return price, true
}
