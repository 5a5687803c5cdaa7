package orders

import (
	"context"
	"fmt"

	"github.com/Spok95/order-bot/internal/domain/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// Create сохраняет заявку и все позиции в одной транзакции.
// Пользователь-владелец создаётся при первой заявке.
func (r *Repo) Create(ctx context.Context, tgID int64, d Draft) (int64, error) {
	if len(d.Items) == 0 {
		return 0, fmt.Errorf("order has no items")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	u, err := users.GetOrCreate(ctx, tx, tgID, d.Name, d.Phone)
	if err != nil {
		return 0, fmt.Errorf("get or create user: %w", err)
	}

	var orderID int64
	if err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, warehouse, transport_number, comment, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id
	`, u.ID, d.Warehouse, d.Transport, d.Comment, StatusNew).Scan(&orderID); err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for i, it := range d.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, position, product_name, quantity)
			VALUES ($1,$2,$3,$4)
		`, orderID, i+1, it.Product, it.Quantity)
	}
	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("insert items: %w", err)
	}

	return orderID, tx.Commit(ctx)
}

// SaveMessageIDs запоминает, куда ушла заявка, чтобы её можно было потом править.
func (r *Repo) SaveMessageIDs(ctx context.Context, orderID int64, telegramMsgID *int64, whatsappMsgID *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE orders SET telegram_message_id = $2, whatsapp_message_id = $3
		WHERE id = $1
	`, orderID, telegramMsgID, whatsappMsgID)
	return err
}

func (r *Repo) Get(ctx context.Context, id int64) (*Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT o.id, o.user_id, u.telegram_id,
		       COALESCE(NULLIF(c.name, ''), u.name), COALESCE(NULLIF(c.phone, ''), u.phone),
		       o.warehouse, o.transport_number, o.comment, o.status,
		       o.telegram_message_id, o.whatsapp_message_id, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		LEFT JOIN clients c ON c.telegram_id = u.telegram_id
		WHERE o.id = $1
	`, id)
	var o Order
	if err := row.Scan(&o.ID, &o.UserID, &o.TelegramID, &o.ClientName, &o.Phone,
		&o.Warehouse, &o.Transport, &o.Comment, &o.Status,
		&o.TelegramMessageID, &o.WhatsAppMessageID, &o.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsByOrder(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	o.Items = items[id]
	return &o, nil
}
