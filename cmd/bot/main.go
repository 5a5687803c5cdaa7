package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Spok95/order-bot/internal/bot"
	"github.com/Spok95/order-bot/internal/config"
	"github.com/Spok95/order-bot/internal/dialog"
	"github.com/Spok95/order-bot/internal/dispatch"
	"github.com/Spok95/order-bot/internal/domain/catalog"
	"github.com/Spok95/order-bot/internal/domain/clients"
	"github.com/Spok95/order-bot/internal/domain/orders"
	"github.com/Spok95/order-bot/internal/infra/db"
	httpx "github.com/Spok95/order-bot/internal/infra/http"
	"github.com/Spok95/order-bot/internal/infra/logger"
	"github.com/Spok95/order-bot/internal/infra/whatsapp"
	"github.com/Spok95/order-bot/internal/ordering"
	"github.com/Spok95/order-bot/migrations"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to yaml config")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, cfg.App.LogFormat)
	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("bot stopped", "err", err)
		os.Exit(1)
	}
	log.Info("graceful shutdown complete")
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := db.Migrate(cfg.Postgres.DSN, migrations.FS); err != nil {
		return err
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("db connected")

	readiness := []httpx.Pinger{pool}

	var store dialog.Store
	switch cfg.Session.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		store = dialog.NewRedisStore(rdb, cfg.Session.TTL)
		readiness = append(readiness, httpx.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
		log.Info("session store: redis", "addr", cfg.Redis.Addr)
	default:
		store = dialog.NewMemoryStore()
		log.Info("session store: memory")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return err
	}
	log.Info("telegram authorized", "username", api.Self.UserName)

	clientsRepo := clients.NewRepo(pool)
	catalogRepo := catalog.NewRepo(pool)
	ordersRepo := orders.NewRepo(pool)

	// nil-интерфейс, а не nil-указатель: иначе политика решит, что WhatsApp есть
	var wa dispatch.WhatsAppSender
	waCfg := whatsapp.Config{
		APIURL:     cfg.WhatsApp.APIURL,
		InstanceID: cfg.WhatsApp.InstanceID,
		Token:      cfg.WhatsApp.Token,
		RPS:        cfg.WhatsApp.RPS,
	}
	if waCfg.Configured() {
		client, err := whatsapp.New(waCfg, log)
		if err != nil {
			return err
		}
		wa = client
	} else {
		log.Warn("whatsapp not configured, orders go to telegram only")
	}
	if cfg.Telegram.GroupID == 0 {
		log.Warn("telegram group not configured")
	}

	policy := dispatch.New(bot.NewGroupSender(api), wa, catalogRepo, dispatch.Config{
		TelegramGroupID:   cfg.Telegram.GroupID,
		WhatsAppGroupID:   cfg.WhatsApp.GroupID,
		WhatsAppRecipient: cfg.WhatsApp.Recipient,
	}, log)

	machine := ordering.New(ordering.Deps{
		Store:      store,
		Catalog:    catalogRepo,
		Profiles:   clientsRepo,
		Orders:     ordersRepo,
		Dispatcher: policy,
		Log:        log,
	}, ordering.Options{
		Strict:   cfg.Bot.StrictMatching,
		Location: cfg.Location(),
	})

	b := bot.New(api, log, bot.Deps{
		Machine:  machine,
		Clients:  clientsRepo,
		Catalog:  catalogRepo,
		Orders:   ordersRepo,
		AdminIDs: cfg.Telegram.AdminIDs,
		Location: cfg.Location(),
	})

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, readiness...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server started", "addr", cfg.HTTP.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		log.Info("bot started", "admins", len(cfg.Telegram.AdminIDs), "strict", cfg.Bot.StrictMatching)
		return b.Run(gctx, cfg.Telegram.PollTimeout)
	})
	return g.Wait()
}
