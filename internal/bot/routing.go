package bot

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/dialog"
	"github.com/Spok95/order-bot/internal/ordering"
)

const (
	textNoAdmin = "❌ У вас нет прав администратора"
	textNoUser  = "❌ У вас нет доступа к боту"
	textFailed  = "❌ Произошла ошибка. Попробуйте снова /start"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID
	args := msg.CommandArguments()

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, msg)
		return

	case "help":
		text := "Команды:\n" +
			"/start — начать работу\n" +
			"/profile — мои данные\n" +
			"/cancel — отменить заявку\n" +
			"/help — помощь"
		if b.isAdmin(tgID) {
			text += "\n/admin — панель администратора"
		}
		b.send(tgbotapi.NewMessage(chatID, text))
		return

	case "cancel":
		admin, allowed, err := b.access(ctx, tgID)
		if err != nil {
			b.logger(ctx).Error("access check failed", "user_id", tgID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, textFailed))
			return
		}
		if !allowed {
			return
		}
		b.reply(chatID, b.machine.Cancel(ctx, ordering.Input{UserID: tgID, Admin: admin}))
		return

	case "profile":
		b.showProfile(ctx, msg)
		return
	}

	// дальше только админские команды
	if !b.isAdmin(tgID) {
		switch msg.Command() {
		case "admin", "addclient", "editclient", "blockclient", "removeclient",
			"addwarehouse", "addwarehouse2", "setwhatsapp", "removewhatsapp", "removewarehouse",
			"addproduct", "removeproduct", "exportorder":
			b.send(tgbotapi.NewMessage(chatID, textNoAdmin))
		default:
			b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
		}
		return
	}

	switch msg.Command() {
	case "admin":
		b.showAdminPanel(chatID, true)
	case "addclient":
		b.cmdAddClient(ctx, chatID, tgID, args)
	case "editclient":
		b.cmdEditClient(ctx, chatID, args)
	case "blockclient", "removeclient":
		b.cmdBlockClient(ctx, chatID, args)
	case "addwarehouse", "addwarehouse2":
		b.cmdAddWarehouse(ctx, chatID, args)
	case "setwhatsapp":
		b.cmdSetWhatsApp(ctx, chatID, args)
	case "removewhatsapp":
		b.cmdRemoveWhatsApp(ctx, chatID, args)
	case "removewarehouse":
		b.cmdRemoveWarehouse(ctx, chatID, args)
	case "addproduct":
		b.cmdAddProduct(ctx, chatID, args)
	case "removeproduct":
		b.cmdRemoveProduct(ctx, chatID, args)
	case "exportorder":
		b.cmdExportOrder(ctx, chatID, args)
	default:
		b.send(tgbotapi.NewMessage(chatID, "Не знаю такую команду. Наберите /help"))
	}
}

// handleText: сначала кнопки меню, потом диалог заявки.
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tgID := msg.From.ID

	admin, allowed, err := b.access(ctx, tgID)
	if err != nil {
		b.logger(ctx).Error("access check failed", "user_id", tgID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, textFailed))
		return
	}
	if !allowed {
		// незарегистрированных молча игнорируем
		return
	}

	in := ordering.Input{UserID: tgID, Text: msg.Text, Admin: admin}
	switch msg.Text {
	case ordering.BtnStartClient, ordering.BtnStartAdmin:
		b.reply(chatID, b.machine.Start(ctx, in))
		return
	case ordering.BtnEditName:
		b.reply(chatID, b.machine.EditProfile(ctx, in, dialog.EditName))
		return
	case ordering.BtnEditPhone:
		b.reply(chatID, b.machine.EditProfile(ctx, in, dialog.EditPhone))
		return
	}

	if admin && b.handleAdminButton(ctx, chatID, msg.Text) {
		return
	}
	b.reply(chatID, b.machine.Handle(ctx, in))
}

// handleAdminButton возвращает false, если текст не кнопка админ-панели.
func (b *Bot) handleAdminButton(ctx context.Context, chatID int64, text string) bool {
	switch text {
	case ordering.BtnAdminPanel, btnBackAdmin:
		b.showAdminPanel(chatID, text == ordering.BtnAdminPanel)
	case btnBackMain:
		m := tgbotapi.NewMessage(chatID, "Главное меню:")
		m.ReplyMarkup = mainMenuKeyboard(true)
		b.send(m)

	case btnClients:
		b.sendWithKeyboard(chatID, "👥 Управление клиентами\n\nВыберите действие:", clientsReplyKeyboard())
	case btnClientList:
		b.showClientList(ctx, chatID)
	case btnPending:
		b.showPendingRequests(ctx, chatID)
	case btnAddClient:
		b.sendWithKeyboard(chatID,
			"➕ Прямое добавление клиента\n\n"+
				"Отправьте команду:\n"+
				"/addclient Telegram_ID | Имя | Телефон\n\n"+
				"Пример:\n"+
				"/addclient 123456789 | Алишер Иванов | +992901234567\n\n"+
				"💡 Клиент будет добавлен сразу без запроса на регистрацию",
			backAdminKeyboard())
	case btnEditClient:
		b.showClientPicker(ctx, chatID, "✏️ Выберите клиента для изменения:",
			"/editclient ID | Новое_имя | Новый_телефон",
			"/editclient 123456789 | Алишер Иванов | +992901234567")
	case btnBlockClient:
		b.showClientPicker(ctx, chatID, "🚫 Выберите клиента для блокировки:",
			"/blockclient Telegram_ID", "/blockclient 123456789")

	case btnWarehouses:
		b.sendWithKeyboard(chatID, "🏬 Управление складами\n\nВыберите действие:", warehousesReplyKeyboard())
	case btnAddWarehouse:
		b.sendWithKeyboard(chatID,
			"➕ Добавление склада\n\n"+
				"Отправьте команду:\n"+
				"/addwarehouse Название_склада\n\n"+
				"Пример:\n"+
				"/addwarehouse Склад №5\n\n"+
				"📱 После добавления можно настроить WhatsApp:\n"+
				"/setwhatsapp Название | ID_группы",
			backAdminKeyboard())
	case btnWarehouseList:
		b.showWarehouseList(ctx, chatID)
	case btnWhatsApp:
		b.showWhatsAppSetup(ctx, chatID)
	case btnRemoveWarehouse:
		b.showWarehousePicker(ctx, chatID)

	case btnProducts:
		b.sendWithKeyboard(chatID, "🛒 Управление товарами\n\nВыберите действие:", productsReplyKeyboard())
	case btnAddProduct:
		b.sendWithKeyboard(chatID,
			"➕ Добавление товара\n\n"+
				"Отправьте команду:\n"+
				"/addproduct Название_товара\n\n"+
				"Пример:\n"+
				"/addproduct Гравий",
			backAdminKeyboard())
	case btnProductList:
		b.showProductList(ctx, chatID)
	case btnRemoveProduct:
		b.showProductPicker(ctx, chatID)

	case btnStats:
		b.sendWithKeyboard(chatID, "📊 Статистика\n\nВыберите тип статистики:", statsReplyKeyboard())
	case btnStatsGeneral:
		b.showStats(ctx, chatID)
	case btnStatsClients:
		b.showClientStats(ctx, chatID)
	case btnStatsRecent:
		b.showRecentOrders(ctx, chatID)
	case btnStatsWarehouses:
		b.showWarehouseStats(ctx, chatID)

	case btnExport:
		b.sendWithKeyboard(chatID, "📄 Экспорт данных в Excel\n\nВыберите тип экспорта:", exportReplyKeyboard())
	case btnExportClients:
		b.exportClientStats(ctx, chatID)
	case btnExportRecent:
		b.exportRecentOrders(ctx, chatID)
	case btnExportWarehouses:
		b.exportWarehouseStats(ctx, chatID)
	case btnExportFull:
		b.exportFullReport(ctx, chatID)
	case btnExportOrder:
		b.sendWithKeyboard(chatID,
			"🔍 Экспорт конкретной заявки\n\n"+
				"Отправьте команду:\n"+
				"/exportorder ID_заявки\n\n"+
				"Пример:\n"+
				"/exportorder 28",
			backAdminKeyboard())

	default:
		return false
	}
	return true
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.From == nil || cb.Message == nil {
		return
	}
	parts := strings.Split(cb.Data, ":")
	if len(parts) != 3 || parts[0] != "reg" {
		_ = b.answerCallback(cb, "", false)
		return
	}
	if !b.isAdmin(cb.From.ID) {
		_ = b.answerCallback(cb, textNoAdmin, true)
		return
	}
	clientID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		_ = b.answerCallback(cb, "❌ Запрос не найден", false)
		return
	}

	switch parts[1] {
	case "approve":
		b.approveRequest(ctx, cb, clientID)
	case "reject":
		b.rejectRequest(ctx, cb, clientID)
	default:
		_ = b.answerCallback(cb, "", false)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, kb tgbotapi.ReplyKeyboardMarkup) {
	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = kb
	b.send(m)
}

func (b *Bot) showAdminPanel(chatID int64, full bool) {
	text := "👨‍💼 Панель администратора"
	if full {
		text += "\n\nВыберите действие:"
	}
	b.sendWithKeyboard(chatID, text, adminReplyKeyboard())
}
