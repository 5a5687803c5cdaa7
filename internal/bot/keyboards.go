package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/order-bot/internal/ordering"
)

// Кнопки админ-панели.
const (
	btnBackMain = "🔙 Назад"

	btnClients     = "👥 Управление клиентами"
	btnClientList  = "📋 Список клиентов"
	btnPending     = "📋 Ожидающие запросы"
	btnAddClient   = "➕ Добавить клиента напрямую"
	btnEditClient  = "✏️ Изменить данные клиента"
	btnBlockClient = "🚫 Заблокировать клиента"

	btnWarehouses      = "🏬 Управление складами"
	btnAddWarehouse    = "➕ Добавить склад"
	btnWarehouseList   = "📋 Список складов"
	btnWhatsApp        = "📱 Настроить WhatsApp группы"
	btnRemoveWarehouse = "🗑️ Удалить склад"

	btnProducts      = "🛒 Управление товарами"
	btnAddProduct    = "➕ Добавить товар"
	btnProductList   = "📋 Список товаров"
	btnRemoveProduct = "🗑️ Удалить товар"

	btnStats           = "📊 Статистика"
	btnStatsGeneral    = "📈 Общая статистика"
	btnStatsClients    = "👥 Детальная по клиентам"
	btnStatsRecent     = "📦 Последние заявки"
	btnStatsWarehouses = "🏬 Статистика по складам"

	btnExport           = "📄 Экспорт в Excel"
	btnExportClients    = "📊 Экспорт статистики клиентов"
	btnExportRecent     = "📦 Экспорт последних заявок"
	btnExportWarehouses = "🏬 Экспорт статистики складов"
	btnExportFull       = "📋 Полный отчет"
	btnExportOrder      = "🔍 Экспорт конкретной заявки"

	btnBackAdmin = "🔙 Назад в админ-панель"
)

func replyKeyboard(rows ...[]string) tgbotapi.ReplyKeyboardMarkup {
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			btns = append(btns, tgbotapi.NewKeyboardButton(label))
		}
		kb = append(kb, btns)
	}
	return tgbotapi.ReplyKeyboardMarkup{ResizeKeyboard: true, Keyboard: kb}
}

// replyMarkup переводит клавиатуру ответа диалога в разметку Telegram.
// nil — клавиатуру не трогаем.
func replyMarkup(m ordering.Message) interface{} {
	switch {
	case len(m.Keyboard) > 0:
		kb := replyKeyboard(m.Keyboard...)
		kb.OneTimeKeyboard = m.OneTime
		return kb
	case m.RemoveKeyboard:
		return tgbotapi.NewRemoveKeyboard(true)
	}
	return nil
}

func mainMenuKeyboard(admin bool) tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(ordering.MenuKeyboard(admin)...)
}

// adminReplyKeyboard Нижняя панель администратора
func adminReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnClients},
		[]string{btnClientList},
		[]string{btnEditClient},
		[]string{btnBlockClient},
		[]string{btnWarehouses},
		[]string{btnProducts},
		[]string{btnStats},
		[]string{btnExport},
		[]string{btnBackMain},
	)
}

func clientsReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnPending},
		[]string{btnAddClient},
		[]string{btnBlockClient},
		[]string{btnBackAdmin},
	)
}

func warehousesReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnAddWarehouse},
		[]string{btnWarehouseList},
		[]string{btnWhatsApp},
		[]string{btnRemoveWarehouse},
		[]string{btnBackAdmin},
	)
}

func productsReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnAddProduct},
		[]string{btnProductList},
		[]string{btnRemoveProduct},
		[]string{btnBackAdmin},
	)
}

func statsReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnStatsGeneral},
		[]string{btnStatsClients},
		[]string{btnStatsRecent},
		[]string{btnStatsWarehouses},
		[]string{btnBackAdmin},
	)
}

func exportReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnExportClients},
		[]string{btnExportRecent},
		[]string{btnExportWarehouses},
		[]string{btnExportFull},
		[]string{btnExportOrder},
		[]string{btnBackAdmin},
	)
}

func profileReplyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{ordering.BtnEditName},
		[]string{ordering.BtnEditPhone},
		[]string{ordering.BtnBack},
	)
}

func backAdminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([]string{btnBackAdmin})
}

// registrationKeyboard — кнопки под запросом на регистрацию у админа.
func registrationKeyboard(tgID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Одобрить", fmt.Sprintf("reg:approve:%d", tgID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отклонить", fmt.Sprintf("reg:reject:%d", tgID)),
		),
	)
}
