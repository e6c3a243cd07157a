package parts

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gmtc-io/crm/internal/platform/httpx"
	"github.com/gmtc-io/crm/internal/server/shared"
)

type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Part, int, error)
	Get(ctx context.Context, id uuid.UUID) (Part, error)
	Create(ctx context.Context, part Part) (Part, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Part, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, quantity int) (Part, error)
	Categories(ctx context.Context) ([]string, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

// unit_price is cast to text so the decimal survives the wire untouched.
const columns = `id, sku, name, description, category, specifications,
	current_stock, minimum_stock, unit_price::text, created_at, updated_at, deleted_at`

func scan(row pgx.Row) (Part, error) {
	var p Part
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Category,
		&p.Specifications, &p.CurrentStock, &p.MinimumStock, &p.UnitPrice,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Part{}, httpx.ErrNotFound
	}
	return p, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Part, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		p := strconv.Itoa(argCount)
		where += ` AND (sku ILIKE $` + p + ` OR name ILIKE $` + p + ` OR description ILIKE $` + p + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.Category != "" {
		argCount++
		where += ` AND category = $` + strconv.Itoa(argCount)
		args = append(args, filters.Category)
	}
	if filters.LowStockOnly {
		where += ` AND current_stock < minimum_stock`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM parts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM parts` + where + ` ORDER BY name`
	argCount++
	query += ` LIMIT $` + strconv.Itoa(argCount)
	args = append(args, filters.PerPage)
	argCount++
	query += ` OFFSET $` + strconv.Itoa(argCount)
	args = append(args, filters.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		parts = append(parts, p)
	}
	return parts, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Part, error) {
	query := `SELECT ` + columns + ` FROM parts WHERE id = $1 AND deleted_at IS NULL`
	return scan(r.db.QueryRow(ctx, query, id))
}

func (r *repository) Create(ctx context.Context, part Part) (Part, error) {
	query := `INSERT INTO parts (id, sku, name, description, category,
			specifications, current_stock, minimum_stock, unit_price,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::numeric, $10, $10)
		RETURNING ` + columns
	now := time.Now().UTC()
	created, err := scan(r.db.QueryRow(ctx, query, uuid.New(), part.SKU,
		part.Name, part.Description, part.Category, part.Specifications,
		part.CurrentStock, part.MinimumStock, part.UnitPrice, now))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Part{}, httpx.ErrDuplicate
		}
		return Part{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Part, error) {
	set := ""
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += column + " = $" + strconv.Itoa(len(args))
	}

	if req.SKU != nil {
		add("sku", *req.SKU)
	}
	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Specifications != nil {
		add("specifications", req.Specifications)
	}
	if req.CurrentStock != nil {
		add("current_stock", *req.CurrentStock)
	}
	if req.MinimumStock != nil {
		add("minimum_stock", *req.MinimumStock)
	}
	if req.UnitPrice != nil {
		args = append(args, *req.UnitPrice)
		if set != "" {
			set += ", "
		}
		set += "unit_price = $" + strconv.Itoa(len(args)) + "::numeric"
	}
	if len(args) == 0 {
		return r.Get(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := `UPDATE parts SET ` + set + ` WHERE id = $` + strconv.Itoa(len(args)) + ` AND deleted_at IS NULL RETURNING ` + columns
	updated, err := scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Part{}, httpx.ErrDuplicate
		}
		return Part{}, err
	}
	return updated, nil
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE parts SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}

// AdjustStock applies a signed delta atomically; the guard in the WHERE
// clause keeps concurrent adjustments from racing below zero.
func (r *repository) AdjustStock(ctx context.Context, id uuid.UUID, quantity int) (Part, error) {
	query := `UPDATE parts
		SET current_stock = current_stock + $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL AND current_stock + $1 >= 0
		RETURNING ` + columns
	part, err := scan(r.db.QueryRow(ctx, query, quantity, time.Now().UTC(), id))
	if err == nil {
		return part, nil
	}
	if !errors.Is(err, httpx.ErrNotFound) {
		return Part{}, err
	}
	// Distinguish "missing" from "would go negative".
	if _, getErr := r.Get(ctx, id); getErr != nil {
		return Part{}, getErr
	}
	return Part{}, shared.ErrStockBelowZero
}

func (r *repository) Categories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM parts
		WHERE deleted_at IS NULL AND category IS NOT NULL AND category <> ''
		ORDER BY category`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
