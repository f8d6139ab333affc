package di

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	feedService "github.com/reshetovitsme/rent-alert-bot/internal/modules/feed/service"
	"github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/extractor"
	listingService "github.com/reshetovitsme/rent-alert-bot/internal/modules/listing/service"
	subscriberRepo "github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/repository"
	subscriberService "github.com/reshetovitsme/rent-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/rent-alert-bot/internal/pipeline"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/config"
	"github.com/reshetovitsme/rent-alert-bot/internal/shared/webclient"
	httpServer "github.com/reshetovitsme/rent-alert-bot/internal/transport/http"
	telegramTransport "github.com/reshetovitsme/rent-alert-bot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register web client
	do.Provide(injector, func(i do.Injector) (*webclient.Client, error) {
		return webclient.New(0), nil
	})

	// Register Subscriber Repository
	do.Provide(injector, func(i do.Injector) (subscriberRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := subscriberRepo.NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			return nil, oops.With("database_path", cfg.DatabasePath, "context", "failed to initialize subscriber repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Subscriber Service
	do.Provide(injector, func(i do.Injector) (*subscriberService.Service, error) {
		repo := do.MustInvoke[subscriberRepo.Repository](i)
		return subscriberService.New(repo), nil
	})

	// Register Feed Service
	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return feedService.New(cfg.FeedWindow), nil
	})

	// Register Sources (configuration entries -> parser implementations)
	do.Provide(injector, func(i do.Injector) ([]*listingService.Source, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client := do.MustInvoke[*webclient.Client](i)

		sources := make([]*listingService.Source, 0, len(cfg.Sources))
		for _, entry := range cfg.Sources {
			parser, err := extractor.Build(entry.Parser)
			if err != nil {
				return nil, oops.With("url", entry.URL, "context", "failed to build parser").Wrap(err)
			}
			sources = append(sources, listingService.NewSource(entry.URL, parser, client))
		}
		return sources, nil
	})

	// Register Poller
	do.Provide(injector, func(i do.Injector) (*listingService.Poller, error) {
		cfg := do.MustInvoke[*config.Config](i)
		sources := do.MustInvoke[[]*listingService.Source](i)
		interval := time.Duration(cfg.PollInterval) * time.Second
		return listingService.NewPoller(sources, interval), nil
	})

	// Register Telegram Handler
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Handler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		subscribers := do.MustInvoke[*subscriberService.Service](i)
		return telegramTransport.New(cfg, subscribers), nil
	})

	// Register Bot (needs to be initialized after handlers are ready)
	do.Provide(injector, func(i do.Injector) (*bot.Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		handler := do.MustInvoke[*telegramTransport.Handler](i)

		b, err := bot.New(cfg.TelegramBotToken)
		if err != nil {
			return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
		}

		handler.RegisterCommands(b)

		return b, nil
	})

	// Register Notifier
	do.Provide(injector, func(i do.Injector) (*telegramTransport.Notifier, error) {
		cfg := do.MustInvoke[*config.Config](i)
		b := do.MustInvoke[*bot.Bot](i)
		delay := time.Duration(cfg.BroadcastDelayMS) * time.Millisecond
		return telegramTransport.NewNotifier(b, delay), nil
	})

	// Register Pipeline
	do.Provide(injector, func(i do.Injector) (*pipeline.Pipeline, error) {
		poller := do.MustInvoke[*listingService.Poller](i)
		subscribers := do.MustInvoke[*subscriberService.Service](i)
		notifier := do.MustInvoke[*telegramTransport.Notifier](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		return pipeline.New(poller, subscribers, notifier, feeds), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		feeds := do.MustInvoke[*feedService.Service](i)
		server := httpServer.New(cfg, feeds)
		server.SetLogger(slog.Default())
		return server, nil
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx := context.Background()

	// Shutdown bot if it exists
	if b, err := do.Invoke[*bot.Bot](injector); err == nil && b != nil {
		b.Close(ctx)
	}

	// Close subscriber storage if it was opened
	if repo, err := do.Invoke[subscriberRepo.Repository](injector); err == nil && repo != nil {
		if err := repo.Close(); err != nil {
			return oops.With("context", "closing subscriber repository").Wrap(err)
		}
	}

	return nil
}
