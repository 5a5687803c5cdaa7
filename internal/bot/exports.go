package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/Spok95/order-bot/internal/domain/orders"
	"github.com/Spok95/order-bot/internal/report"
)

// exportFileName: префикс, время и короткий суффикс, чтобы два админа
// в одну секунду не получили одинаковые имена.
func exportFileName(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", prefix, at.Format("20060102_150405"), uuid.NewString()[:8])
}

func (b *Bot) sendXLSX(chatID int64, prefix, caption string, data []byte) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  exportFileName(prefix, time.Now().In(b.loc)),
		Bytes: data,
	})
	doc.Caption = caption
	b.send(doc)
}

func (b *Bot) exportClientStats(ctx context.Context, chatID int64) {
	b.send(tgbotapi.NewMessage(chatID, "⏳ Создаю файл Excel со статистикой клиентов..."))

	list, err := b.orders.ClientStats(ctx)
	if err != nil {
		b.logger(ctx).Error("client stats failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	data, err := report.ClientStats(list, b.loc)
	if err != nil {
		b.logger(ctx).Error("build client stats xlsx failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	b.sendXLSX(chatID, "clients", "📊 Статистика по клиентам\n\n"+
		"Файл содержит:\n• Имена клиентов\n• Контактные данные\n• Количество заявок\n• Даты первой и последней заявки", data)
}

func (b *Bot) exportRecentOrders(ctx context.Context, chatID int64) {
	b.send(tgbotapi.NewMessage(chatID, "⏳ Создаю детальный файл Excel с заявками..."))

	list, err := b.orders.Recent(ctx, recentExported)
	if err != nil {
		b.logger(ctx).Error("recent orders failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	data, err := report.RecentOrders(list, b.loc)
	if err != nil {
		b.logger(ctx).Error("build orders xlsx failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	b.sendXLSX(chatID, "orders", fmt.Sprintf("📦 Детальные заявки (последние %d)", recentExported), data)
}

func (b *Bot) exportWarehouseStats(ctx context.Context, chatID int64) {
	b.send(tgbotapi.NewMessage(chatID, "⏳ Создаю файл Excel со статистикой складов..."))

	list, err := b.orders.WarehouseStats(ctx)
	if err != nil {
		b.logger(ctx).Error("warehouse stats failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	data, err := report.WarehouseStats(list)
	if err != nil {
		b.logger(ctx).Error("build warehouse stats xlsx failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	b.sendXLSX(chatID, "warehouses", "🏬 Статистика по складам\n\n"+
		"Файл содержит:\n• Названия складов\n• Количество заявок\n• Количество уникальных клиентов", data)
}

func (b *Bot) exportFullReport(ctx context.Context, chatID int64) {
	b.send(tgbotapi.NewMessage(chatID, "⏳ Создаю полный отчет Excel... Это может занять некоторое время."))

	var (
		r   report.Full
		err error
	)
	if r.Stats, err = b.orders.Stats(ctx); err == nil {
		if r.Clients, err = b.orders.ClientStats(ctx); err == nil {
			if r.Orders, err = b.orders.Recent(ctx, recentExported); err == nil {
				r.Warehouses, err = b.orders.WarehouseStats(ctx)
			}
		}
	}
	if err != nil {
		b.logger(ctx).Error("full report query failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании полного отчета"))
		return
	}

	data, err := report.FullReport(r, b.loc)
	if err != nil {
		b.logger(ctx).Error("build full report failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании полного отчета"))
		return
	}
	b.sendXLSX(chatID, "full_report", "📋 Полный отчет\n\n"+
		"Файл содержит 4 листа:\n• 📈 Общая статистика\n• 👥 Клиенты\n• 📦 Заявки\n• 🏬 Склады", data)
}

func (b *Bot) cmdExportOrder(ctx context.Context, chatID int64, raw string) {
	id, err := parseIDArg(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ ID заявки должен быть числом\n\nПример: /exportorder 28"))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("⏳ Создаю детальный файл для заявки #%d...", id)))

	o, err := b.orders.Get(ctx, id)
	if errors.Is(err, orders.ErrNotFound) {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Заявка #%d не найдена", id)))
		return
	}
	if err != nil {
		b.logger(ctx).Error("load order failed", "order_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	data, err := report.Order(*o, b.loc)
	if err != nil {
		b.logger(ctx).Error("build order xlsx failed", "order_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при создании файла Excel"))
		return
	}
	b.sendXLSX(chatID, fmt.Sprintf("order_%d", id), fmt.Sprintf("🔍 Детальная заявка #%d", id), data)
}
