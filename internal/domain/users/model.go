package users

import "time"

// User — владелец заявок. Таблица users отделена от clients:
// заявки остаются привязанными, даже если клиента заблокировали.
type User struct {
	ID         int64
	TelegramID int64
	Name       string
	Phone      string
	CreatedAt  time.Time
}
