package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/domain/catalog"
)

func (b *Bot) productListText(ctx context.Context, title string) (string, bool, error) {
	ps, err := b.catalog.ListProducts(ctx)
	if err != nil {
		return "", false, err
	}
	if len(ps) == 0 {
		return "📋 Список товаров пуст", false, nil
	}
	var sb strings.Builder
	sb.WriteString(title + "\n\n")
	for i, p := range ps {
		fmt.Fprintf(&sb, "%d. %s (ID: %d)\n", i+1, p.Name, p.ID)
	}
	return sb.String(), true, nil
}

func (b *Bot) showProductList(ctx context.Context, chatID int64) {
	text, _, err := b.productListText(ctx, "📋 Список товаров:")
	if err != nil {
		b.logger(ctx).Error("list products failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка товаров"))
		return
	}
	b.text(chatID, text)
}

func (b *Bot) showProductPicker(ctx context.Context, chatID int64) {
	text, found, err := b.productListText(ctx, "🗑️ Выберите товар для удаления:")
	if err != nil {
		b.logger(ctx).Error("list products failed", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении списка товаров"))
		return
	}
	if !found {
		b.send(tgbotapi.NewMessage(chatID, text))
		return
	}
	text += "\nОтправьте команду:\n/removeproduct ID\n\nПример:\n/removeproduct 1"
	b.sendWithKeyboard(chatID, text, backAdminKeyboard())
}

func (b *Bot) cmdAddProduct(ctx context.Context, chatID int64, raw string) {
	name, err := parseName(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Укажите название товара\n\nПример: /addproduct Гравий"))
		return
	}

	p, err := b.catalog.CreateProduct(ctx, name)
	if errors.Is(err, catalog.ErrExists) {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("⚠️ Товар \"%s\" уже существует", name)))
		return
	}
	if err != nil {
		b.logger(ctx).Error("add product failed", "name", name, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при добавлении товара"))
		return
	}
	b.logger(ctx).Info("product added", "product_id", p.ID, "name", p.Name)
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Товар \"%s\" добавлен!", p.Name)))
}

func (b *Bot) cmdRemoveProduct(ctx context.Context, chatID int64, raw string) {
	id, err := parseIDArg(b.validate, raw)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ ID должен быть числом"))
		return
	}
	ok, err := b.catalog.RemoveProduct(ctx, id)
	if err != nil {
		b.logger(ctx).Error("remove product failed", "product_id", id, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при удалении товара"))
		return
	}
	if !ok {
		b.send(tgbotapi.NewMessage(chatID, "❌ Товар не найден"))
		return
	}
	b.logger(ctx).Info("product removed", "product_id", id)
	b.send(tgbotapi.NewMessage(chatID, "✅ Товар удален"))
}
