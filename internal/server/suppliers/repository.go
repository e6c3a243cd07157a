package suppliers

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
	List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error)
	Get(ctx context.Context, id uuid.UUID) (Supplier, error)
	Create(ctx context.Context, supplier Supplier) (Supplier, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Supplier, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, contact_person, email, phone, address_line1,
	address_line2, city, state, postal_code, country, website, notes, rating,
	is_active, created_at, updated_at, deleted_at`

func scan(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone,
		&s.AddressLine1, &s.AddressLine2, &s.City, &s.State, &s.PostalCode,
		&s.Country, &s.Website, &s.Notes, &s.Rating, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, httpx.ErrNotFound
	}
	return s, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Supplier, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		p := strconv.Itoa(argCount)
		where += ` AND (name ILIKE $` + p + ` OR email ILIKE $` + p + ` OR contact_person ILIKE $` + p + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.ActiveOnly {
		where += ` AND is_active`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM suppliers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM suppliers` + where + ` ORDER BY name`
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

	var suppliers []Supplier
	for rows.Next() {
		s, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Supplier, error) {
	query := `SELECT ` + columns + ` FROM suppliers WHERE id = $1 AND deleted_at IS NULL`
	return scan(r.db.QueryRow(ctx, query, id))
}

func (r *repository) Create(ctx context.Context, supplier Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (id, name, contact_person, email, phone,
			address_line1, address_line2, city, state, postal_code, country,
			website, notes, rating, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING ` + columns
	now := time.Now().UTC()
	created, err := scan(r.db.QueryRow(ctx, query, uuid.New(), supplier.Name,
		supplier.ContactPerson, supplier.Email, supplier.Phone,
		supplier.AddressLine1, supplier.AddressLine2, supplier.City,
		supplier.State, supplier.PostalCode, supplier.Country,
		supplier.Website, supplier.Notes, supplier.Rating, supplier.IsActive, now))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Supplier{}, httpx.ErrDuplicate
		}
		return Supplier{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Supplier, error) {
	set := ""
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		if set != "" {
			set += ", "
		}
		set += column + " = $" + strconv.Itoa(len(args))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if req.ContactPerson != nil {
		add("contact_person", *req.ContactPerson)
	}
	if req.Email != nil {
		add("email", *req.Email)
	}
	if req.Phone != nil {
		add("phone", *req.Phone)
	}
	if req.AddressLine1 != nil {
		add("address_line1", *req.AddressLine1)
	}
	if req.AddressLine2 != nil {
		add("address_line2", *req.AddressLine2)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if req.State != nil {
		add("state", *req.State)
	}
	if req.PostalCode != nil {
		add("postal_code", *req.PostalCode)
	}
	if req.Country != nil {
		add("country", *req.Country)
	}
	if req.Website != nil {
		add("website", *req.Website)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}
	if req.Rating != nil {
		add("rating", *req.Rating)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(args) == 0 {
		return r.Get(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := `UPDATE suppliers SET ` + set + ` WHERE id = $` + strconv.Itoa(len(args)) + ` AND deleted_at IS NULL RETURNING ` + columns
	return scan(r.db.QueryRow(ctx, query, args...))
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE suppliers SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
