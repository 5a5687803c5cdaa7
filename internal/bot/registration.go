package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/domain/clients"
)

func displayName(u *tgbotapi.User) string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	if u.UserName != "" {
		return u.UserName
	}
	return "Пользователь"
}

// handleStart: админу и клиенту — меню, остальным — запрос на регистрацию.
func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	if b.isAdmin(tgID) {
		b.sendWithKeyboard(chatID, "👋 Добро пожаловать, администратор!\n\nВыберите действие:", mainMenuKeyboard(true))
		return
	}

	isClient, err := b.clients.IsClient(ctx, tgID)
	if err != nil {
		b.logger(ctx).Error("client lookup failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, textFailed))
		return
	}
	if isClient {
		b.sendWithKeyboard(chatID,
			"👋 Добро пожаловать в систему приема заявок!\n\nНажмите \"🏬 Склад\" чтобы создать заявку",
			mainMenuKeyboard(false))
		return
	}

	pending, err := b.clients.PendingRequest(ctx, tgID)
	if err != nil {
		b.logger(ctx).Error("pending request lookup failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, textFailed))
		return
	}
	if pending != nil {
		b.send(tgbotapi.NewMessage(chatID,
			"⏳ Ваш запрос на регистрацию уже отправлен администратору.\n\nПожалуйста, ожидайте подтверждения."))
		return
	}

	name := displayName(msg.From)
	if err := b.clients.CreateRequest(ctx, tgID, name, msg.From.UserName); err != nil {
		b.logger(ctx).Error("create registration request failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, textFailed))
		return
	}
	b.logger(ctx).Info("registration requested", "user_id", tgID)

	b.send(tgbotapi.NewMessage(chatID,
		"📝 Ваш запрос на регистрацию отправлен администратору.\n\n"+
			"Вы получите уведомление, когда администратор одобрит вашу заявку.\n\n"+
			fmt.Sprintf("Ваш Telegram ID: %d", tgID)))

	b.notifyAdmins(tgID, name, msg.From.UserName)
}

func (b *Bot) notifyAdmins(tgID int64, name, username string) {
	text := "🔔 Новый запрос на регистрацию!\n\n" +
		fmt.Sprintf("👤 Имя: %s\n", name) +
		fmt.Sprintf("🆔 Telegram ID: %d\n", tgID) +
		fmt.Sprintf("📱 Username: @%s\n\n", orDash(username, "не указан")) +
		"Одобрить регистрацию?"
	for _, adminID := range b.adminIDs {
		m := tgbotapi.NewMessage(adminID, text)
		m.ReplyMarkup = registrationKeyboard(tgID)
		b.send(m)
	}
}

func (b *Bot) approveRequest(ctx context.Context, cb *tgbotapi.CallbackQuery, clientID int64) {
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID

	req, err := b.clients.Approve(ctx, clientID, cb.From.ID)
	if errors.Is(err, clients.ErrNotFound) {
		_ = b.answerCallback(cb, "❌ Запрос не найден", false)
		b.editText(chatID, msgID, "❌ Запрос уже обработан или не найден")
		return
	}
	if err != nil {
		b.logger(ctx).Error("approve failed", "client_id", clientID, "err", err)
		_ = b.answerCallback(cb, "❌ Ошибка при одобрении", true)
		return
	}
	b.logger(ctx).Info("client approved", "client_id", clientID, "admin_id", cb.From.ID)

	_ = b.answerCallback(cb, "✅ Клиент одобрен!", false)
	b.editText(chatID, msgID,
		"✅ Клиент одобрен!\n\n"+
			fmt.Sprintf("👤 Имя: %s\n", req.Name)+
			fmt.Sprintf("🆔 ID: %d\n", clientID)+
			fmt.Sprintf("✅ Одобрил: %s\n\n", displayName(cb.From))+
			"📝 Клиент заполнит контактные данные при создании первой заявки.")

	b.send(tgbotapi.NewMessage(clientID,
		"✅ Ваша регистрация одобрена!\n\n"+
			"Теперь вы можете создавать заявки.\n"+
			"При создании первой заявки вам нужно будет указать ваше имя и телефон.\n\n"+
			"Отправьте /start для начала работы."))
}

func (b *Bot) rejectRequest(ctx context.Context, cb *tgbotapi.CallbackQuery, clientID int64) {
	chatID, msgID := cb.Message.Chat.ID, cb.Message.MessageID

	req, err := b.clients.Reject(ctx, clientID)
	if errors.Is(err, clients.ErrNotFound) {
		_ = b.answerCallback(cb, "❌ Запрос не найден", false)
		b.editText(chatID, msgID, "❌ Запрос уже обработан или не найден")
		return
	}
	if err != nil {
		b.logger(ctx).Error("reject failed", "client_id", clientID, "err", err)
		_ = b.answerCallback(cb, "❌ Ошибка при отклонении", true)
		return
	}
	b.logger(ctx).Info("client rejected", "client_id", clientID, "admin_id", cb.From.ID)

	_ = b.answerCallback(cb, "❌ Запрос отклонен", false)
	b.editText(chatID, msgID,
		"❌ Запрос отклонен\n\n"+
			fmt.Sprintf("👤 Имя: %s\n", req.Name)+
			fmt.Sprintf("🆔 ID: %d\n", clientID)+
			fmt.Sprintf("❌ Отклонил: %s", displayName(cb.From)))

	b.send(tgbotapi.NewMessage(clientID,
		"❌ К сожалению, ваш запрос на регистрацию был отклонен.\n\n"+
			"Для получения дополнительной информации обратитесь к администратору."))
}

// showProfile — /profile: текущие имя и телефон с кнопками редактирования.
func (b *Bot) showProfile(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	_, allowed, err := b.access(ctx, tgID)
	if err != nil {
		b.logger(ctx).Error("access check failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении данных профиля"))
		return
	}
	if !allowed {
		b.send(tgbotapi.NewMessage(chatID, textNoUser))
		return
	}

	c, err := b.clients.Get(ctx, tgID)
	if err != nil {
		b.logger(ctx).Error("profile lookup failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Ошибка при получении данных профиля"))
		return
	}
	if c == nil {
		b.send(tgbotapi.NewMessage(chatID, "❌ Ваши данные не найдены"))
		return
	}

	b.sendWithKeyboard(chatID,
		"👤 Ваш профиль:\n\n"+
			fmt.Sprintf("Имя: %s\n", orDash(c.Name, "не указано"))+
			fmt.Sprintf("Телефон: %s\n\n", orDash(c.Phone, "не указан"))+
			"Что хотите изменить?",
		profileReplyKeyboard())
}
