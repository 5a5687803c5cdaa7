package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/domain/catalog"
)

func whatsAppBadge(w catalog.Warehouse) string {
	if w.WhatsAppGroupID.Valid && w.WhatsAppGroupID.String != "" {
		return "✅"
	}
	return "❌"
}

func (b *Bot) showWarehouseList(ctx context.Context, chatID int64) {
	ws, err := b.catalog.ListWarehouses(ctx)
	if err != nil {
		b.logger(ctx).Error("list warehouses failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка складов"))
		return
	}
	if len(ws) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Список складов пуст"))
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Список складов:\n\n")
	for i, w := range ws {
		fmt.Fprintf(&sb, "%d. %s (ID: %d)\n", i+1, w.Name, w.ID)
		if w.WhatsAppGroupID.Valid {
			fmt.Fprintf(&sb, "   📱 ✅ WhatsApp настроен\n   🆔 Группа: %s\n\n", w.WhatsAppGroupID.String)
		} else {
			sb.WriteString("   📱 ❌ WhatsApp не настроен\n\n")
		}
	}
	b.text(chatID, sb.String())
}

func (b *Bot) showWhatsAppSetup(ctx context.Context, chatID int64) {
	ws, err := b.catalog.ListWarehouses(ctx)
	if err != nil {
		b.logger(ctx).Error("list warehouses failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка складов"))
		return
	}
	if len(ws) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Сначала добавьте склады"))
		return
	}

	var sb strings.Builder
	sb.WriteString("📱 Настройка WhatsApp групп для складов\n\n")
	sb.WriteString("Заявка уходит в группу своего склада, а если её нет, в общую группу.\n\n")
	sb.WriteString("📋 Текущие склады:\n\n")
	for i, w := range ws {
		fmt.Fprintf(&sb, "%d. %s %s\n", i+1, whatsAppBadge(w), w.Name)
		if w.WhatsAppGroupID.Valid {
			fmt.Fprintf(&sb, "   📱 Группа: %s\n", w.WhatsAppGroupID.String)
		}
	}
	sb.WriteString("\n🔗 Привязать группу к складу:\n/setwhatsapp Название_склада | ID_группы\n\n")
	sb.WriteString("🗑️ Отвязать группу от склада:\n/removewhatsapp Название_склада\n\n")
	sb.WriteString("💡 Пример:\n/setwhatsapp Склад №1 | 120363XXXXXXXXXX@g.us")

	for _, part := range splitText(sb.String(), maxMessageLen) {
		b.sendWithKeyboard(chatID, part, backAdminKeyboard())
	}
}

func (b *Bot) showWarehousePicker(ctx context.Context, chatID int64) {
	ws, err := b.catalog.ListWarehouses(ctx)
	if err != nil {
		b.logger(ctx).Error("list warehouses failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка складов"))
		return
	}
	if len(ws) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📋 Список складов пуст"))
		return
	}

	var sb strings.Builder
	sb.WriteString("🗑️ Выберите склад для удаления:\n\n")
	for i, w := range ws {
		fmt.Fprintf(&sb, "%d. %s (ID: %d)\n", i+1, w.Name, w.ID)
	}
	sb.WriteString("\nОтправьте команду:\n/removewarehouse ID\n\nПример:\n/removewarehouse 1")
	b.sendWithKeyboard(chatID, sb.String(), backAdminKeyboard())
}

func (b *Bot) cmdAddWarehouse(ctx context.Context, chatID int64, raw string) {
	name, err := parseName(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Укажите название склада\n\nПример: /addwarehouse Новый склад"))
		return
	}

	w, err := b.catalog.CreateWarehouse(ctx, name)
	if errors.Is(err, catalog.ErrExists) {
		status := "❌ не настроен"
		if w != nil && w.WhatsAppGroupID.Valid {
			status = fmt.Sprintf("✅ настроен (%s)", w.WhatsAppGroupID.String)
		}
		text := fmt.Sprintf("⚠️ Склад \"%s\" уже существует!\n\n", name)
		if w != nil {
			text += fmt.Sprintf("🆔 ID: %d\n", w.ID)
		}
		text += fmt.Sprintf("📱 WhatsApp: %s\n\n💡 Для настройки WhatsApp группы используйте:\n/setwhatsapp %s | ID_группы", status, name)
		b.send(tgbotapi.NewMessage(chatID, text))
		return
	}
	if err != nil {
		b.logger(ctx).Error("add warehouse failed", "name", name, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при добавлении склада"))
		return
	}
	b.logger(ctx).Info("warehouse added", "warehouse_id", w.ID, "name", w.Name)

	b.send(tgbotapi.NewMessage(chatID,
		fmt.Sprintf("✅ Склад \"%s\" успешно добавлен!\n\n🆔 ID: %d\n📱 WhatsApp: не настроен\n\n", w.Name, w.ID)+
			fmt.Sprintf("💡 Для настройки WhatsApp группы используйте:\n/setwhatsapp %s | ID_группы", w.Name)))
}

func (b *Bot) cmdSetWhatsApp(ctx context.Context, chatID int64, raw string) {
	a, err := parseWhatsAppArgs(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Неверный формат!\n\n"+
				"Используйте:\n"+
				"/setwhatsapp Название_склада | ID_группы\n\n"+
				"Пример:\n"+
				"/setwhatsapp Склад №1 | 120363XXXXXXXXXX@g.us"))
		return
	}

	ok, err := b.catalog.SetWarehouseWhatsApp(ctx, a.Warehouse, a.GroupID)
	if err != nil {
		b.logger(ctx).Error("set whatsapp group failed", "warehouse", a.Warehouse, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при привязке WhatsApp группы"))
		return
	}
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Склад \"%s\" не найден", a.Warehouse)))
		return
	}

	b.send(tgbotapi.NewMessage(chatID,
		"✅ WhatsApp группа привязана к складу!\n\n"+
			fmt.Sprintf("🏬 Склад: %s\n📱 WhatsApp группа: %s\n\n", a.Warehouse, a.GroupID)+
			fmt.Sprintf("🎯 Теперь все заявки для склада \"%s\" будут отправляться в эту WhatsApp группу!", a.Warehouse)))
}

func (b *Bot) cmdRemoveWhatsApp(ctx context.Context, chatID int64, raw string) {
	name, err := parseName(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"❌ Укажите название склада!\n\n"+
				"Используйте:\n/removewhatsapp Название_склада\n\n"+
				"Пример:\n/removewhatsapp Склад №1"))
		return
	}

	ok, err := b.catalog.SetWarehouseWhatsApp(ctx, name, "")
	if err != nil {
		b.logger(ctx).Error("remove whatsapp group failed", "warehouse", name, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при отвязке WhatsApp группы"))
		return
	}
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Склад \"%s\" не найден", name)))
		return
	}

	b.send(tgbotapi.NewMessage(chatID,
		"✅ WhatsApp группа отвязана от склада!\n\n"+
			fmt.Sprintf("🏬 Склад: %s\n\n", name)+
			"📤 Теперь заявки для этого склада будут отправляться в общую группу WhatsApp."))
}

func (b *Bot) cmdRemoveWarehouse(ctx context.Context, chatID int64, raw string) {
	id, err := parseIDArg(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ ID должен быть числом"))
		return
	}
	ok, err := b.catalog.RemoveWarehouse(ctx, id)
	if err != nil {
		b.logger(ctx).Error("remove warehouse failed", "warehouse_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при удалении склада"))
		return
	}
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "❌ Склад не найден"))
		return
	}
	b.logger(ctx).Info("warehouse removed", "warehouse_id", id)
	b.send(tgbotapi.NewMessage(chatID, "✅ Склад удален"))
}
