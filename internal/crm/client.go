package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenFunc yields the bearer token for a request, or "" when the caller is
// not authenticated. The admin app reads it out of the request's session.
type TokenFunc func(ctx context.Context) string

// Client talks to the CRM REST backend. The three entity gateways share one
// underlying transport and differ only in their wire types and paths.
type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenFunc

	Customers *Resource[Customer, CustomerCreate, CustomerUpdate, CustomerListParams]
	Parts     *PartsResource
	Suppliers *Resource[Supplier, SupplierCreate, SupplierUpdate, SupplierListParams]
}

// New builds a Client against baseURL. token may be nil for clients that only
// ever call Login and Register.
func New(baseURL string, timeout time.Duration, token TokenFunc) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		token:   token,
	}
	c.Customers = &Resource[Customer, CustomerCreate, CustomerUpdate, CustomerListParams]{client: c, path: "/customers"}
	c.Parts = &PartsResource{Resource[Part, PartCreate, PartUpdate, PartListParams]{client: c, path: "/parts"}}
	c.Suppliers = &Resource[Supplier, SupplierCreate, SupplierUpdate, SupplierListParams]{client: c, path: "/suppliers"}
	return c
}

// Login exchanges credentials for a bearer token. No token is attached to the
// request itself.
func (c *Client) Login(ctx context.Context, creds Credentials) (Token, error) {
	var tok Token
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &tok)
	return tok, err
}

// Register creates an account. The backend does not log the new user in, so
// no token comes back; callers send the user to the login page next.
func (c *Client) Register(ctx context.Context, reg Registration) (User, error) {
	var u User
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &u)
	return u, err
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u)
	return u, err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("crm: encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(ctx); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("crm: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeProblem(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("crm: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func decodeProblem(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
	// Best effort; a non-problem body still yields a usable status error.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(apiErr)
	apiErr.Status = resp.StatusCode
	return apiErr
}

// Resource is a typed gateway over one entity collection. E is the entity,
// C and U the create and update payloads, Q the list parameter type.
type Resource[E any, C any, U any, Q Query] struct {
	client *Client
	path   string
}

// List fetches one page matching params.
func (r *Resource[E, C, U, Q]) List(ctx context.Context, params Q) (ListResult[E], error) {
	var out ListResult[E]
	err := r.client.do(ctx, http.MethodGet, r.path, params.Values(), nil, &out)
	return out, err
}

// Get fetches a single record by id.
func (r *Resource[E, C, U, Q]) Get(ctx context.Context, id uuid.UUID) (E, error) {
	var out E
	err := r.client.do(ctx, http.MethodGet, r.path+"/"+id.String(), nil, nil, &out)
	return out, err
}

// Create submits payload and returns the stored record.
func (r *Resource[E, C, U, Q]) Create(ctx context.Context, payload C) (E, error) {
	var out E
	err := r.client.do(ctx, http.MethodPost, r.path, nil, payload, &out)
	return out, err
}

// Update applies a partial update and returns the stored record.
func (r *Resource[E, C, U, Q]) Update(ctx context.Context, id uuid.UUID, payload U) (E, error) {
	var out E
	err := r.client.do(ctx, http.MethodPatch, r.path+"/"+id.String(), nil, payload, &out)
	return out, err
}

// Delete soft-deletes a record. Subsequent reads of the id return not found.
func (r *Resource[E, C, U, Q]) Delete(ctx context.Context, id uuid.UUID) error {
	return r.client.do(ctx, http.MethodDelete, r.path+"/"+id.String(), nil, nil, nil)
}

// PartsResource adds the part-only operations on top of the shared gateway.
type PartsResource struct {
	Resource[Part, PartCreate, PartUpdate, PartListParams]
}

// AdjustStock applies a signed quantity delta to a part's current stock.
func (r *PartsResource) AdjustStock(ctx context.Context, id uuid.UUID, adj StockAdjustment) (Part, error) {
	var out Part
	err := r.client.do(ctx, http.MethodPatch, r.path+"/"+id.String()+"/stock", nil, adj, &out)
	return out, err
}

// Categories returns the distinct category names in use.
func (r *PartsResource) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.client.do(ctx, http.MethodGet, r.path+"/categories", nil, nil, &out)
	return out, err
}
