package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/Spok95/order-bot/internal/domain/catalog"
	"github.com/Spok95/order-bot/internal/domain/clients"
	"github.com/Spok95/order-bot/internal/domain/orders"
	"github.com/Spok95/order-bot/internal/infra/metrics"
	"github.com/Spok95/order-bot/internal/ordering"
)

// Сколько последних заявок показывать в тексте и в выгрузке.
const (
	recentShown    = 15
	recentExported = 100
)

type Deps struct {
	Machine  *ordering.Machine
	Clients  *clients.Repo
	Catalog  *catalog.Repo
	Orders   *orders.Repo
	AdminIDs []int64
	Location *time.Location
}

type Bot struct {
	api      *tgbotapi.BotAPI
	log      *slog.Logger
	machine  *ordering.Machine
	clients  *clients.Repo
	catalog  *catalog.Repo
	orders   *orders.Repo
	admins   map[int64]struct{}
	adminIDs []int64
	loc      *time.Location
	validate *validator.Validate
}

func New(api *tgbotapi.BotAPI, log *slog.Logger, d Deps) *Bot {
	admins := make(map[int64]struct{}, len(d.AdminIDs))
	for _, id := range d.AdminIDs {
		admins[id] = struct{}{}
	}
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		api: api, log: log, machine: d.Machine,
		clients: d.Clients, catalog: d.Catalog, orders: d.Orders,
		admins: admins, adminIDs: d.AdminIDs, loc: loc,
		validate: validator.New(),
	}
}

// Run читает апдейты до отмены ctx. Апдейты одного пользователя идут
// по очереди в порядке поступления, разные пользователи не ждут друг друга.
func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)

	err := serveUpdates(ctx, updates, b.onUpdate)
	b.api.StopReceivingUpdates()
	return err
}

func (b *Bot) onUpdate(ctx context.Context, upd tgbotapi.Update) {
	trace := uuid.NewString()
	ctx = context.WithValue(ctx, traceKey{}, trace)

	defer func() {
		if r := recover(); r != nil {
			b.log.Error("update handler panic", "trace_id", trace, "update_id", upd.UpdateID, "panic", r)
		}
	}()

	switch {
	case upd.Message != nil:
		metrics.Updates.WithLabelValues("message").Inc()
		b.onMessage(ctx, upd)
	case upd.CallbackQuery != nil:
		metrics.Updates.WithLabelValues("callback").Inc()
		b.onCallback(ctx, upd)
	default:
		metrics.Updates.WithLabelValues("other").Inc()
	}
}

func (b *Bot) onMessage(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg.From == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		// в группах бот только пишет
		return
	}
	b.logger(ctx).Debug("message", "user_id", msg.From.ID, "command", msg.Command())

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) onCallback(ctx context.Context, upd tgbotapi.Update) {
	b.handleCallback(ctx, upd.CallbackQuery)
}

func (b *Bot) isAdmin(tgID int64) bool {
	_, ok := b.admins[tgID]
	return ok
}

// access: админ — всегда, остальные — только активные клиенты.
func (b *Bot) access(ctx context.Context, tgID int64) (admin, allowed bool, err error) {
	if b.isAdmin(tgID) {
		return true, true, nil
	}
	ok, err := b.clients.IsClient(ctx, tgID)
	if err != nil {
		return false, false, err
	}
	return false, ok, nil
}

// reply отправляет ответы диалога по порядку.
func (b *Bot) reply(chatID int64, msgs []ordering.Message) {
	for _, m := range msgs {
		parts := splitText(m.Text, maxMessageLen)
		for i, part := range parts {
			out := tgbotapi.NewMessage(chatID, part)
			if i == len(parts)-1 {
				if markup := replyMarkup(m); markup != nil {
					out.ReplyMarkup = markup
				}
			}
			b.send(out)
		}
	}
}
