package orders

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *Repo) count(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}
	var n int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	var (
		s   Stats
		err error
	)
	if s.TotalClients, err = r.count(ctx, psql.Select("COUNT(*)").From("clients").Where(sq.Eq{"active": true})); err != nil {
		return s, fmt.Errorf("count clients: %w", err)
	}
	orders := psql.Select("COUNT(*)").From("orders")
	if s.TotalOrders, err = r.count(ctx, orders); err != nil {
		return s, fmt.Errorf("count orders: %w", err)
	}
	if s.OrdersToday, err = r.count(ctx, orders.Where("created_at >= date_trunc('day', now())")); err != nil {
		return s, fmt.Errorf("count orders today: %w", err)
	}
	if s.OrdersWeek, err = r.count(ctx, orders.Where("created_at >= now() - interval '7 days'")); err != nil {
		return s, fmt.Errorf("count orders week: %w", err)
	}
	return s, nil
}

// ClientStats — заявки по каждому активному клиенту, самые активные сверху.
func (r *Repo) ClientStats(ctx context.Context) ([]ClientStat, error) {
	query, args, err := psql.
		Select("c.telegram_id", "c.name", "c.phone", "COUNT(o.id)", "MIN(o.created_at)", "MAX(o.created_at)").
		From("clients c").
		LeftJoin("users u ON u.telegram_id = c.telegram_id").
		LeftJoin("orders o ON o.user_id = u.id").
		Where(sq.Eq{"c.active": true}).
		GroupBy("c.telegram_id", "c.name", "c.phone").
		OrderBy("COUNT(o.id) DESC", "MAX(o.created_at) DESC NULLS LAST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build client stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ClientStat
	for rows.Next() {
		var s ClientStat
		if err := rows.Scan(&s.TelegramID, &s.Name, &s.Phone, &s.OrdersCount, &s.FirstOrder, &s.LastOrder); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Recent возвращает последние limit заявок вместе с позициями.
func (r *Repo) Recent(ctx context.Context, limit uint64) ([]Order, error) {
	query, args, err := psql.
		Select("o.id", "o.user_id", "u.telegram_id",
			"COALESCE(NULLIF(c.name, ''), u.name)", "COALESCE(NULLIF(c.phone, ''), u.phone)",
			"o.warehouse", "o.transport_number", "o.comment", "o.status", "o.created_at").
		From("orders o").
		Join("users u ON u.id = o.user_id").
		LeftJoin("clients c ON c.telegram_id = u.telegram_id").
		OrderBy("o.created_at DESC", "o.id DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build recent orders: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var (
		out []Order
		ids []int64
	)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TelegramID, &o.ClientName, &o.Phone,
			&o.Warehouse, &o.Transport, &o.Comment, &o.Status, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, o)
		ids = append(ids, o.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	items, err := r.itemsByOrder(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Items = items[out[i].ID]
	}
	return out, nil
}

func (r *Repo) WarehouseStats(ctx context.Context) ([]WarehouseStat, error) {
	query, args, err := psql.
		Select("o.warehouse", "COUNT(*)", "COUNT(DISTINCT u.telegram_id)").
		From("orders o").
		Join("users u ON u.id = o.user_id").
		GroupBy("o.warehouse").
		OrderBy("COUNT(*) DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build warehouse stats: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []WarehouseStat
	for rows.Next() {
		var s WarehouseStat
		if err := rows.Scan(&s.Warehouse, &s.OrdersCount, &s.UniqueClients); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) itemsByOrder(ctx context.Context, ids []int64) (map[int64][]Item, error) {
	query, args, err := psql.
		Select("order_id", "product_name", "quantity").
		From("order_items").
		Where(sq.Eq{"order_id": ids}).
		OrderBy("order_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build items: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[int64][]Item, len(ids))
	for rows.Next() {
		var (
			orderID int64
			it      Item
		)
		if err := rows.Scan(&orderID, &it.Product, &it.Quantity); err != nil {
			return nil, err
		}
		out[orderID] = append(out[orderID], it)
	}
	return out, rows.Err()
}
