package users

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier — общее у пула и транзакции.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetOrCreate находит пользователя по Telegram ID или создаёт нового.
// Непустые имя и телефон из заявки перезаписывают сохранённые.
func GetOrCreate(ctx context.Context, q Querier, tgID int64, name, phone string) (*User, error) {
	row := q.QueryRow(ctx, `
		INSERT INTO users (telegram_id, name, phone)
		VALUES ($1,$2,$3)
		ON CONFLICT (telegram_id)
		DO UPDATE SET
			name  = CASE WHEN EXCLUDED.name  <> '' THEN EXCLUDED.name  ELSE users.name  END,
			phone = CASE WHEN EXCLUDED.phone <> '' THEN EXCLUDED.phone ELSE users.phone END
		RETURNING id, telegram_id, name, phone, created_at
	`, tgID, name, phone)

	var u User
	if err := row.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Phone, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
