package customers

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
	List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error)
	Get(ctx context.Context, id uuid.UUID) (Customer, error)
	Create(ctx context.Context, customer Customer) (Customer, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Customer, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const columns = `id, name, contact_person, email, phone, company_name, tax_id,
	address_line1, address_line2, city, state, postal_code, country, website,
	notes, customer_type, is_active, created_at, updated_at, deleted_at`

func scan(row pgx.Row) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone,
		&c.CompanyName, &c.TaxID, &c.AddressLine1, &c.AddressLine2, &c.City,
		&c.State, &c.PostalCode, &c.Country, &c.Website, &c.Notes,
		&c.CustomerType, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, httpx.ErrNotFound
	}
	return c, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Customer, int, error) {
	where := ` WHERE deleted_at IS NULL`
	args := []interface{}{}
	argCount := 0

	if filters.Search != "" {
		argCount++
		p := strconv.Itoa(argCount)
		where += ` AND (name ILIKE $` + p + ` OR email ILIKE $` + p + ` OR company_name ILIKE $` + p + `)`
		args = append(args, "%"+filters.Search+"%")
	}
	if filters.CustomerType != "" {
		argCount++
		where += ` AND customer_type = $` + strconv.Itoa(argCount)
		args = append(args, filters.CustomerType)
	}
	if filters.ActiveOnly {
		where += ` AND is_active`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + columns + ` FROM customers` + where + ` ORDER BY name`
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

	var customers []Customer
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	query := `SELECT ` + columns + ` FROM customers WHERE id = $1 AND deleted_at IS NULL`
	return scan(r.db.QueryRow(ctx, query, id))
}

func (r *repository) Create(ctx context.Context, customer Customer) (Customer, error) {
	query := `INSERT INTO customers (id, name, contact_person, email, phone,
			company_name, tax_id, address_line1, address_line2, city, state,
			postal_code, country, website, notes, customer_type, is_active,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING ` + columns
	now := time.Now().UTC()
	created, err := scan(r.db.QueryRow(ctx, query, uuid.New(), customer.Name,
		customer.ContactPerson, customer.Email, customer.Phone,
		customer.CompanyName, customer.TaxID, customer.AddressLine1,
		customer.AddressLine2, customer.City, customer.State,
		customer.PostalCode, customer.Country, customer.Website, customer.Notes,
		customer.CustomerType, customer.IsActive, now))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Customer{}, httpx.ErrDuplicate
		}
		return Customer{}, err
	}
	return created, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (Customer, error) {
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
	if req.CompanyName != nil {
		add("company_name", *req.CompanyName)
	}
	if req.TaxID != nil {
		add("tax_id", *req.TaxID)
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
	if req.CustomerType != nil {
		add("customer_type", *req.CustomerType)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}
	if len(args) == 0 {
		return r.Get(ctx, id)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, id)
	query := `UPDATE customers SET ` + set + ` WHERE id = $` + strconv.Itoa(len(args)) + ` AND deleted_at IS NULL RETURNING ` + columns
	return scan(r.db.QueryRow(ctx, query, args...))
}

func (r *repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE customers SET deleted_at = $1, updated_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return nil
}
