package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/domain/orders"
)

const dateTimeLayout = "02.01.2006 15:04"

func statsText(s orders.Stats) string {
	return "📈 Общая статистика\n\n" +
		fmt.Sprintf("👥 Всего клиентов: %d\n", s.TotalClients) +
		fmt.Sprintf("📦 Всего заявок: %d\n", s.TotalOrders) +
		fmt.Sprintf("📅 Заявок сегодня: %d\n", s.OrdersToday) +
		fmt.Sprintf("📅 Заявок за неделю: %d", s.OrdersWeek)
}

func clientStatsText(list []orders.ClientStat, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("👥 Детальная статистика по клиентам:\n\n")
	for i, c := range list {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, orDash(c.Name, "Без имени"))
		fmt.Fprintf(&sb, "   📞 %s\n", orDash(c.Phone, "Не указан"))
		fmt.Fprintf(&sb, "   🆔 ID: %d\n", c.TelegramID)
		fmt.Fprintf(&sb, "   📦 Заявок: %d\n", c.OrdersCount)
		if c.LastOrder != nil {
			fmt.Fprintf(&sb, "   📅 Последняя заявка: %s\n\n", c.LastOrder.In(loc).Format(dateTimeLayout))
		} else {
			sb.WriteString("   📅 Заявок не было\n\n")
		}
	}
	return sb.String()
}

func recentOrdersText(list []orders.Order, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📦 Последние %d заявок:\n\n", len(list))
	for i, o := range list {
		fmt.Fprintf(&sb, "%d. Заявка #%d\n", i+1, o.ID)
		fmt.Fprintf(&sb, "   👤 %s\n", orDash(o.ClientName, "Без имени"))
		fmt.Fprintf(&sb, "   📞 %s\n", orDash(o.Phone, "Не указан"))
		fmt.Fprintf(&sb, "   🏬 Склад: %s\n", o.Warehouse)
		fmt.Fprintf(&sb, "   🚛 Транспорт: %s\n", orDash(o.Transport, "Не указан"))
		fmt.Fprintf(&sb, "   📅 %s\n", o.CreatedAt.In(loc).Format(dateTimeLayout))
		fmt.Fprintf(&sb, "   📝 %s\n\n", orDash(o.Comment, "Без комментария"))
	}
	return sb.String()
}

func warehouseStatsText(list []orders.WarehouseStat) string {
	var sb strings.Builder
	sb.WriteString("🏬 Статистика по складам:\n\n")
	for i, w := range list {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, w.Warehouse)
		fmt.Fprintf(&sb, "   📦 Заявок: %d\n", w.OrdersCount)
		fmt.Fprintf(&sb, "   👥 Уникальных клиентов: %d\n\n", w.UniqueClients)
	}
	return sb.String()
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	s, err := b.orders.Stats(ctx)
	if err != nil {
		b.logger(ctx).Error("stats failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении статистики"))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, statsText(s)))
}

func (b *Bot) showClientStats(ctx context.Context, chatID int64) {
	list, err := b.orders.ClientStats(ctx)
	if err != nil {
		b.logger(ctx).Error("client stats failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении детальной статистики"))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Нет данных о заявках клиентов"))
		return
	}
	b.text(chatID, clientStatsText(list, b.loc))
}

func (b *Bot) showRecentOrders(ctx context.Context, chatID int64) {
	list, err := b.orders.Recent(ctx, recentShown)
	if err != nil {
		b.logger(ctx).Error("recent orders failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении последних заявок"))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Нет заявок"))
		return
	}
	b.text(chatID, recentOrdersText(list, b.loc))
}

func (b *Bot) showWarehouseStats(ctx context.Context, chatID int64) {
	list, err := b.orders.WarehouseStats(ctx)
	if err != nil {
		b.logger(ctx).Error("warehouse stats failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении статистики по складам"))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Нет данных по складам"))
		return
	}
	b.text(chatID, warehouseStatsText(list))
}
