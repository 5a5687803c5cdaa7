package ordering

// Подписи кнопок. Сравниваются с текстом сообщения побуквенно.
const (
	BtnStartClient = "🏬 Склад"
	BtnStartAdmin  = "📦 Создать заявку"
	BtnAdminPanel  = "👨‍💼 Панель администратора"

	BtnAddMore  = "➕ Добавить еще товар"
	BtnContinue = "✅ Продолжить"
	BtnConfirm  = "✅ Подтвердить"
	BtnCancel   = "❌ Отменить"

	BtnEditName  = "✏️ Изменить имя"
	BtnEditPhone = "✏️ Изменить телефон"
	BtnBack      = "🔙 Отмена"

	// KeepToken оставляет сохранённое значение (имя/телефон) или пропускает комментарий.
	KeepToken = "-"

	UnitSuffix = " шт"
)

// MenuKeyboard — главное меню: у админа своё.
func MenuKeyboard(admin bool) [][]string {
	if admin {
		return [][]string{{BtnStartAdmin}, {BtnAdminPanel}}
	}
	return [][]string{{BtnStartClient}}
}

func column(labels []string) [][]string {
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{l})
	}
	return rows
}
