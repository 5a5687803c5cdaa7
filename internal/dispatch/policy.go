package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/order-bot/internal/infra/metrics"
)

type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWhatsApp Channel = "whatsapp"
)

// Куда ушло сообщение в WhatsApp.
type TargetKind string

const (
	TargetWarehouseGroup TargetKind = "warehouse_group"
	TargetGlobalGroup    TargetKind = "global_group"
	TargetDirect         TargetKind = "direct"
)

type TelegramSender interface {
	SendToGroup(ctx context.Context, chatID int64, text string) (int, error)
}

type WhatsAppSender interface {
	Send(ctx context.Context, chatID, text string) (string, error)
}

type WarehouseGroups interface {
	WarehouseWhatsApp(ctx context.Context, warehouse string) (string, error)
}

type Config struct {
	TelegramGroupID   int64
	WhatsAppGroupID   string
	WhatsAppRecipient string
}

type Order struct {
	ID        int64
	Warehouse string
	Text      string
}

type Outcome struct {
	Channel   Channel
	Kind      TargetKind
	Target    string
	OK        bool
	MessageID string
	Err       error
}

type Result struct {
	Outcomes []Outcome
}

func (r Result) find(ch Channel) (Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Channel == ch {
			return o, true
		}
	}
	return Outcome{}, false
}

func (r Result) OK(ch Channel) bool {
	o, found := r.find(ch)
	return found && o.OK
}

// Status — строка для клиента по итогам отправки.
func (r Result) Status(warehouse string) string {
	tg, wa := r.OK(ChannelTelegram), r.OK(ChannelWhatsApp)
	switch {
	case tg && wa:
		return fmt.Sprintf("✅ Заявка отправлена в Telegram и WhatsApp (склад «%s»)!", warehouse)
	case tg:
		return "✅ Заявка отправлена в Telegram группу!"
	case wa:
		return fmt.Sprintf("✅ Заявка отправлена в WhatsApp (склад «%s»)!", warehouse)
	default:
		return "⚠️ Заявка сохранена в базе данных"
	}
}

func (r Result) TelegramMessageID() *int64 {
	o, found := r.find(ChannelTelegram)
	if !found || !o.OK {
		return nil
	}
	id, err := strconv.ParseInt(o.MessageID, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (r Result) WhatsAppMessageID() *string {
	o, found := r.find(ChannelWhatsApp)
	if !found || !o.OK || o.MessageID == "" {
		return nil
	}
	id := o.MessageID
	return &id
}

type Policy struct {
	tg     TelegramSender
	wa     WhatsAppSender
	groups WarehouseGroups
	cfg    Config
	log    *slog.Logger
}

// New собирает политику отправки. wa == nil — WhatsApp не настроен и пропускается.
func New(tg TelegramSender, wa WhatsAppSender, groups WarehouseGroups, cfg Config, log *slog.Logger) *Policy {
	return &Policy{tg: tg, wa: wa, groups: groups, cfg: cfg, log: log}
}

// Dispatch отправляет уже сохранённую заявку. Каналы идут по очереди,
// ошибка одного не мешает другому; повторов нет.
func (p *Policy) Dispatch(ctx context.Context, o Order) Result {
	var res Result

	if p.cfg.TelegramGroupID != 0 && p.tg != nil {
		res.Outcomes = append(res.Outcomes, p.sendTelegram(ctx, o))
	}

	if p.wa != nil {
		kind, target := p.whatsAppTarget(ctx, o.Warehouse)
		if target != "" {
			res.Outcomes = append(res.Outcomes, p.sendWhatsApp(ctx, o, kind, target))
		} else {
			p.log.Warn("whatsapp target not configured", "order_id", o.ID, "warehouse", o.Warehouse)
		}
	}
	return res
}

func (p *Policy) sendTelegram(ctx context.Context, o Order) Outcome {
	out := Outcome{Channel: ChannelTelegram, Target: strconv.FormatInt(p.cfg.TelegramGroupID, 10)}
	start := time.Now()
	msgID, err := p.tg.SendToGroup(ctx, p.cfg.TelegramGroupID, o.Text)
	metrics.DispatchDuration.WithLabelValues(string(ChannelTelegram)).Observe(time.Since(start).Seconds())

	if err != nil {
		out.Err = err
		p.log.Error("telegram group send failed", "order_id", o.ID, "group_id", p.cfg.TelegramGroupID, "err", err)
	} else {
		out.OK = true
		out.MessageID = strconv.Itoa(msgID)
		p.log.Info("order sent to telegram group", "order_id", o.ID, "group_id", p.cfg.TelegramGroupID)
	}
	metrics.Dispatch.WithLabelValues(string(ChannelTelegram), metrics.Result(out.OK)).Inc()
	return out
}

func (p *Policy) sendWhatsApp(ctx context.Context, o Order, kind TargetKind, target string) Outcome {
	out := Outcome{Channel: ChannelWhatsApp, Kind: kind, Target: target}
	start := time.Now()
	msgID, err := p.wa.Send(ctx, target, o.Text)
	metrics.DispatchDuration.WithLabelValues(string(ChannelWhatsApp)).Observe(time.Since(start).Seconds())

	if err != nil {
		out.Err = err
		p.log.Error("whatsapp send failed", "order_id", o.ID, "target", target, "kind", kind, "err", err)
	} else {
		out.OK = true
		out.MessageID = msgID
		p.log.Info("order sent to whatsapp", "order_id", o.ID, "target", target, "kind", kind, "message_id", msgID)
	}
	metrics.Dispatch.WithLabelValues(string(ChannelWhatsApp), metrics.Result(out.OK)).Inc()
	return out
}

// whatsAppTarget: группа склада, иначе общая группа, иначе личный номер.
// Выбирается ровно один адресат.
func (p *Policy) whatsAppTarget(ctx context.Context, warehouse string) (TargetKind, string) {
	if p.groups != nil && warehouse != "" {
		group, err := p.groups.WarehouseWhatsApp(ctx, warehouse)
		if err != nil {
			p.log.Error("warehouse whatsapp lookup failed", "warehouse", warehouse, "err", err)
		} else if group != "" {
			return TargetWarehouseGroup, group
		}
	}
	if p.cfg.WhatsAppGroupID != "" {
		return TargetGlobalGroup, p.cfg.WhatsAppGroupID
	}
	if p.cfg.WhatsAppRecipient != "" {
		return TargetDirect, DirectChatID(p.cfg.WhatsAppRecipient)
	}
	return "", ""
}

// DirectChatID превращает номер телефона в chatId личного чата Green-API.
func DirectChatID(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.Contains(phone, "@") {
		return phone
	}
	return strings.TrimPrefix(phone, "+") + "@c.us"
}
