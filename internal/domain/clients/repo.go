package clients

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

const clientCols = `id, telegram_id, name, phone, added_by, active, created_at`

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	if err := row.Scan(&c.ID, &c.TelegramID, &c.Name, &c.Phone, &c.AddedBy, &c.Active, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get возвращает активного клиента или nil, nil.
func (r *Repo) Get(ctx context.Context, tgID int64) (*Client, error) {
	c, err := scanClient(r.pool.QueryRow(ctx,
		`SELECT `+clientCols+` FROM clients WHERE telegram_id = $1 AND active`, tgID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *Repo) IsClient(ctx context.Context, tgID int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM clients WHERE telegram_id = $1 AND active)`, tgID).Scan(&ok)
	return ok, err
}

func (r *Repo) List(ctx context.Context) ([]Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientCols+` FROM clients WHERE active ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// Add заводит клиента напрямую (без запроса на регистрацию).
// Заблокированный ранее клиент реактивируется.
func (r *Repo) Add(ctx context.Context, tgID int64, name, phone string, addedBy int64) (*Client, error) {
	existing, err := r.Get(ctx, tgID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, ErrExists
	}
	return scanClient(r.pool.QueryRow(ctx, `
		INSERT INTO clients (telegram_id, name, phone, added_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (telegram_id) DO UPDATE SET
			name = EXCLUDED.name, phone = EXCLUDED.phone,
			added_by = EXCLUDED.added_by, active = TRUE
		RETURNING `+clientCols, tgID, name, phone, addedBy))
}

// Update меняет имя и телефон. ErrNotFound — нет активного клиента.
func (r *Repo) Update(ctx context.Context, tgID int64, name, phone string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET name = $1, phone = $2 WHERE telegram_id = $3 AND active`,
		name, phone, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Block — мягкое удаление, история заявок сохраняется.
func (r *Repo) Block(ctx context.Context, tgID int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE clients SET active = FALSE WHERE telegram_id = $1 AND active`, tgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

/* Registration requests */

const requestCols = `id, telegram_id, name, username, status, created_at`

func scanRequest(row pgx.Row) (*RegistrationRequest, error) {
	var q RegistrationRequest
	if err := row.Scan(&q.ID, &q.TelegramID, &q.Name, &q.Username, &q.Status, &q.CreatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateRequest создаёт (или переоткрывает) запрос на регистрацию.
func (r *Repo) CreateRequest(ctx context.Context, tgID int64, name, username string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO registration_requests (telegram_id, name, username)
		VALUES ($1,$2,$3)
		ON CONFLICT (telegram_id) DO UPDATE SET
			name = EXCLUDED.name, username = EXCLUDED.username,
			status = 'pending', created_at = now()
	`, tgID, name, username)
	return err
}

func (r *Repo) PendingRequest(ctx context.Context, tgID int64) (*RegistrationRequest, error) {
	q, err := scanRequest(r.pool.QueryRow(ctx,
		`SELECT `+requestCols+` FROM registration_requests WHERE telegram_id = $1 AND status = 'pending'`, tgID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return q, err
}

func (r *Repo) PendingRequests(ctx context.Context) ([]RegistrationRequest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+requestCols+` FROM registration_requests WHERE status = 'pending' ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RegistrationRequest
	for rows.Next() {
		q, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}

// Approve закрывает запрос и заводит клиента с пустым телефоном —
// контакты клиент заполнит при первой заявке.
func (r *Repo) Approve(ctx context.Context, tgID, approvedBy int64) (*RegistrationRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	q, err := scanRequest(tx.QueryRow(ctx, `
		UPDATE registration_requests SET status = 'approved'
		WHERE telegram_id = $1 AND status = 'pending'
		RETURNING `+requestCols, tgID))
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("close request: %w", err)
	}

	if _, err = tx.Exec(ctx, `
		INSERT INTO clients (telegram_id, name, phone, added_by)
		VALUES ($1,$2,'',$3)
		ON CONFLICT (telegram_id) DO UPDATE SET active = TRUE, added_by = EXCLUDED.added_by
	`, tgID, q.Name, approvedBy); err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return q, tx.Commit(ctx)
}

func (r *Repo) Reject(ctx context.Context, tgID int64) (*RegistrationRequest, error) {
	q, err := scanRequest(r.pool.QueryRow(ctx, `
		UPDATE registration_requests SET status = 'rejected'
		WHERE telegram_id = $1 AND status = 'pending'
		RETURNING `+requestCols, tgID))
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	return q, err
}
