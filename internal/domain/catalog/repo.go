package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

/* Warehouses */

// CreateWarehouse добавляет склад. Если активный склад с таким именем
// (без учёта регистра) уже есть — возвращает его вместе с ErrExists.
func (r *Repo) CreateWarehouse(ctx context.Context, name string) (*Warehouse, error) {
	name = strings.TrimSpace(name)
	existing, err := r.GetWarehouseByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrExists
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO warehouses (name) VALUES ($1)
		RETURNING id, name, whatsapp_group_id, active, created_at
	`, name)
	var w Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.WhatsAppGroupID, &w.Active, &w.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			// гонка двух админов — отдаём то, что успело записаться
			existing, _ := r.GetWarehouseByName(ctx, name)
			return existing, ErrExists
		}
		return nil, err
	}
	return &w, nil
}

func (r *Repo) GetWarehouseByName(ctx context.Context, name string) (*Warehouse, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, whatsapp_group_id, active, created_at
		FROM warehouses WHERE lower(name) = lower($1) AND active
	`, strings.TrimSpace(name))
	var w Warehouse
	if err := row.Scan(&w.ID, &w.Name, &w.WhatsAppGroupID, &w.Active, &w.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

// ListWarehouses возвращает только активные склады, по имени.
func (r *Repo) ListWarehouses(ctx context.Context) ([]Warehouse, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, whatsapp_group_id, active, created_at
		FROM warehouses
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Warehouse
	for rows.Next() {
		var w Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.WhatsAppGroupID, &w.Active, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SetWarehouseWhatsApp привязывает (или отвязывает при пустом groupID) группу WhatsApp.
// false — активного склада с таким именем нет.
func (r *Repo) SetWarehouseWhatsApp(ctx context.Context, name, groupID string) (bool, error) {
	group := null.NewString(groupID, groupID != "")
	tag, err := r.pool.Exec(ctx, `
		UPDATE warehouses SET whatsapp_group_id = $1
		WHERE lower(name) = lower($2) AND active
	`, group, strings.TrimSpace(name))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// WarehouseWhatsApp возвращает привязанную группу склада или "" если её нет.
func (r *Repo) WarehouseWhatsApp(ctx context.Context, name string) (string, error) {
	var group null.String
	err := r.pool.QueryRow(ctx, `
		SELECT whatsapp_group_id FROM warehouses
		WHERE lower(name) = lower($1) AND active
	`, strings.TrimSpace(name)).Scan(&group)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return group.String, nil
}

// RemoveWarehouse мягко удаляет склад (active=false).
func (r *Repo) RemoveWarehouse(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE warehouses SET active = FALSE WHERE id = $1 AND active`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

/* Products */

func (r *Repo) CreateProduct(ctx context.Context, name string) (*Product, error) {
	name = strings.TrimSpace(name)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products (name) VALUES ($1)
		RETURNING id, name, active, created_at
	`, name)
	var p Product
	if err := row.Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrExists
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repo) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, active, created_at
		FROM products
		WHERE active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Active, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) RemoveProduct(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET active = FALSE WHERE id = $1 AND active`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

/* Helpers for the order flow */

func (r *Repo) WarehouseNames(ctx context.Context) ([]string, error) {
	ws, err := r.ListWarehouses(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return out, nil
}

func (r *Repo) ProductNames(ctx context.Context) ([]string, error) {
	ps, err := r.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.Name)
	}
	return out, nil
}
