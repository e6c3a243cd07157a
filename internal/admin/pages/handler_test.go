package pages

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmtc-io/crm/internal/admin/session"
	"github.com/gmtc-io/crm/internal/admin/view"
	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/querycache"
)

func newTestHandler(t *testing.T, backend http.Handler) (*Handler, *session.Manager) {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	sessions := session.NewManager(redisClient, "test_session", "secret", time.Hour, false)
	csrf := session.NewCSRFManager("csrfsecret")

	templates, err := view.NewEngine()
	require.NoError(t, err)

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	api := crm.New(srv.URL, 5*time.Second, session.TokenFromContext)
	cache := querycache.New(30 * time.Second)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewHandler(logger, api, cache, sessions, csrf, templates), sessions
}

func authedRequest(t *testing.T, sessions *session.Manager, method, target string, form url.Values) *http.Request {
	t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	sess, err := sessions.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetToken("tok123")
	sess.SetUserEmail("ops@example.com")
	return req.WithContext(session.ContextWithSession(req.Context(), sess))
}

func emptyListBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{
			Items: []crm.Customer{}, Page: 1, PerPage: 50, TotalPages: 0,
		})
	})
}

func TestListCustomersEmptyState(t *testing.T) {
	h, sessions := newTestHandler(t, emptyListBackend())

	req := authedRequest(t, sessions, http.MethodGet, "/customers", nil)
	res := httptest.NewRecorder()
	h.listCustomers(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "No customers yet")
	assert.NotContains(t, body, "<tbody>")
}

func TestListCustomersSearchEmptyStateNamesTheTerm(t *testing.T) {
	h, sessions := newTestHandler(t, emptyListBackend())

	req := authedRequest(t, sessions, http.MethodGet, "/customers?search=zzz", nil)
	res := httptest.NewRecorder()
	h.listCustomers(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "No customers match")
	assert.Contains(t, res.Body.String(), "zzz")
}

func TestListCustomersRendersRows(t *testing.T) {
	email := "billing@acme.test"
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{
			Items: []crm.Customer{{ID: uuid.New(), Name: "Acme Corp", Email: &email}},
			Total: 1, Page: 1, PerPage: 50, TotalPages: 1,
		})
	})
	h, sessions := newTestHandler(t, backend)

	req := authedRequest(t, sessions, http.MethodGet, "/customers", nil)
	res := httptest.NewRecorder()
	h.listCustomers(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Acme Corp")
	assert.Contains(t, body, email)
	assert.NotContains(t, body, "No customers yet")
}

func TestListCustomersBackendErrorShowsBanner(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	h, sessions := newTestHandler(t, backend)

	req := authedRequest(t, sessions, http.MethodGet, "/customers", nil)
	res := httptest.NewRecorder()
	h.listCustomers(res, req)

	// The page still renders; the failure shows as a banner.
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "Could not load data")
}

func TestListCustomersCachesRepeatReads(t *testing.T) {
	var calls int32
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{Items: []crm.Customer{}})
	})
	h, sessions := newTestHandler(t, backend)

	for i := 0; i < 3; i++ {
		req := authedRequest(t, sessions, http.MethodGet, "/customers", nil)
		res := httptest.NewRecorder()
		h.listCustomers(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateCustomerRedirectsAndInvalidates(t *testing.T) {
	var listCalls int32
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			atomic.AddInt32(&listCalls, 1)
			_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{Items: []crm.Customer{}})
		case http.MethodPost:
			var payload crm.CustomerCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "Acme Corp", payload.Name)
			require.NotNil(t, payload.CustomerType)
			assert.Equal(t, "business", *payload.CustomerType)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(crm.Customer{ID: uuid.New(), Name: payload.Name})
		}
	})
	h, sessions := newTestHandler(t, backend)

	// Warm the cache.
	req := authedRequest(t, sessions, http.MethodGet, "/customers", nil)
	h.listCustomers(httptest.NewRecorder(), req)
	require.Equal(t, int32(1), atomic.LoadInt32(&listCalls))

	form := url.Values{}
	form.Set("name", "Acme Corp")
	form.Set("customer_type", "business")
	req = authedRequest(t, sessions, http.MethodPost, "/customers", form)
	res := httptest.NewRecorder()
	h.createCustomer(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/customers", res.Header().Get("Location"))

	// The write dropped the cached page, so the next read hits the backend.
	req = authedRequest(t, sessions, http.MethodGet, "/customers", nil)
	h.listCustomers(httptest.NewRecorder(), req)
	assert.Equal(t, int32(2), atomic.LoadInt32(&listCalls))
}

func TestCreateCustomerFailureKeepsDraft(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{Items: []crm.Customer{}})
			return
		}
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title": "Unprocessable Entity", "status": 422,
			"detail": "customer name is required",
		})
	})
	h, sessions := newTestHandler(t, backend)

	form := url.Values{}
	form.Set("name", "")
	form.Set("company_name", "Acme Holdings")
	req := authedRequest(t, sessions, http.MethodPost, "/customers", form)
	res := httptest.NewRecorder()
	h.createCustomer(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "customer name is required")
	// The form stays open with the typed values intact.
	assert.Contains(t, body, "Acme Holdings")
	assert.Contains(t, body, "Create customer")
}

func TestUnauthorizedListForcesFreshLogin(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{"title": "Unauthorized", "status": 401})
	})
	h, sessions := newTestHandler(t, backend)

	req := authedRequest(t, sessions, http.MethodGet, "/parts", nil)
	res := httptest.NewRecorder()
	h.listParts(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/auth/login", res.Header().Get("Location"))
}

func TestListPartsShowsStockBadges(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Part]{
			Items: []crm.Part{
				{ID: uuid.New(), SKU: "BRK-001", Name: "Brake pad", CurrentStock: 0, MinimumStock: 5, IsLowStock: true, StockStatus: "out_of_stock"},
				{ID: uuid.New(), SKU: "OIL-010", Name: "Oil filter", CurrentStock: 3, MinimumStock: 5, IsLowStock: true, StockStatus: "low_stock"},
			},
			Total: 2, Page: 1, PerPage: 50, TotalPages: 1,
		})
	})
	h, sessions := newTestHandler(t, backend)

	req := authedRequest(t, sessions, http.MethodGet, "/parts", nil)
	res := httptest.NewRecorder()
	h.listParts(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "out_of_stock")
	assert.Contains(t, body, "low_stock")
	assert.Contains(t, body, "BRK-001")
}

func TestCreatePartSendsStockNumbers(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/parts/categories":
			_ = json.NewEncoder(w).Encode([]string{"brakes"})
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Part]{Items: []crm.Part{}})
		case r.Method == http.MethodPost:
			var payload crm.PartCreate
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.NotNil(t, payload.CurrentStock)
			require.NotNil(t, payload.MinimumStock)
			assert.Equal(t, 12, *payload.CurrentStock)
			assert.Equal(t, 4, *payload.MinimumStock)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(crm.Part{ID: uuid.New(), SKU: payload.SKU, Name: payload.Name})
		}
	})
	h, sessions := newTestHandler(t, backend)

	form := url.Values{}
	form.Set("sku", "BRK-001")
	form.Set("name", "Brake pad")
	form.Set("current_stock", "12")
	form.Set("minimum_stock", "4")
	req := authedRequest(t, sessions, http.MethodPost, "/parts", form)
	res := httptest.NewRecorder()
	h.createPart(res, req)

	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/parts", res.Header().Get("Location"))
}

func TestCreateSupplierDuplicateShowsConflict(t *testing.T) {
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Supplier]{Items: []crm.Supplier{}})
			return
		}
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"title": "Conflict", "status": 409, "detail": "supplier already exists",
		})
	})
	h, sessions := newTestHandler(t, backend)

	form := url.Values{}
	form.Set("name", "Bosch")
	form.Set("rating", "4")
	req := authedRequest(t, sessions, http.MethodPost, "/suppliers", form)
	res := httptest.NewRecorder()
	h.createSupplier(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "supplier already exists")
	assert.Contains(t, body, "Bosch")
}
