package crm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmtc-io/crm/internal/crm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *crm.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return crm.New(srv.URL, 5*time.Second, func(ctx context.Context) string { return token })
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}

func TestListSendsQueryAndBearerToken(t *testing.T) {
	var gotAuth, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/customers", r.URL.Path)
		_ = json.NewEncoder(w).Encode(crm.ListResult[crm.Customer]{
			Items: []crm.Customer{{ID: uuid.New(), Name: "Acme"}},
			Total: 1, Page: 2, PerPage: 50, TotalPages: 3,
		})
	}, "tok123")

	params := crm.CustomerListParams{
		ListParams:   crm.ListParams{Page: 2, PerPage: 50, Search: "acme"},
		CustomerType: "business",
		ActiveOnly:   true,
	}
	result, err := client.Customers.List(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Contains(t, gotQuery, "page=2")
	assert.Contains(t, gotQuery, "per_page=50")
	assert.Contains(t, gotQuery, "search=acme")
	assert.Contains(t, gotQuery, "customer_type=business")
	assert.Contains(t, gotQuery, "active_only=true")
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Acme", result.Items[0].Name)
	assert.Equal(t, 3, result.TotalPages)
}

func TestCreateRoundTripsPayload(t *testing.T) {
	sku := "BRK-001"
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/parts", r.URL.Path)
		var payload crm.PartCreate
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, sku, payload.SKU)

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(crm.Part{
			ID: uuid.New(), SKU: payload.SKU, Name: payload.Name,
			CurrentStock: 4, MinimumStock: 10,
			IsLowStock: true, StockStatus: "low_stock",
		})
	}, "tok")

	stock := 4
	part, err := client.Parts.Create(context.Background(), crm.PartCreate{
		SKU: sku, Name: "Brake pad", CurrentStock: &stock,
	})
	require.NoError(t, err)
	assert.True(t, part.IsLowStock)
	assert.Equal(t, "low_stock", part.StockStatus)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"not found", http.StatusNotFound, crm.IsNotFound},
		{"conflict", http.StatusConflict, crm.IsConflict},
		{"validation", http.StatusUnprocessableEntity, crm.IsValidation},
		{"unauthorized", http.StatusUnauthorized, crm.IsUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeProblem(w, tc.status, "nope")
			}, "tok")

			_, err := client.Suppliers.Get(context.Background(), uuid.New())
			require.Error(t, err)
			assert.True(t, tc.check(err))

			apiErr, ok := crm.AsAPIError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Detail)
		})
	}
}

func TestNonProblemErrorBodyStillMapsStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text failure", http.StatusBadGateway)
	}, "tok")

	_, err := client.Customers.Get(context.Background(), uuid.New())
	require.Error(t, err)
	apiErr, ok := crm.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestAdjustStock(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/parts/"+id.String()+"/stock", r.URL.Path)
		var adj crm.StockAdjustment
		require.NoError(t, json.NewDecoder(r.Body).Decode(&adj))
		assert.Equal(t, -3, adj.Quantity)
		_ = json.NewEncoder(w).Encode(crm.Part{ID: id, CurrentStock: 7, StockStatus: "in_stock"})
	}, "tok")

	part, err := client.Parts.AdjustStock(context.Background(), id, crm.StockAdjustment{Quantity: -3})
	require.NoError(t, err)
	assert.Equal(t, 7, part.CurrentStock)
}

func TestCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parts/categories", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]string{"brakes", "engine"})
	}, "tok")

	categories, err := client.Parts.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"brakes", "engine"}, categories)
}

func TestDeleteSendsNoBodyAndAcceptsNoContent(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/customers/"+id.String(), r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, "tok")

	require.NoError(t, client.Customers.Delete(context.Background(), id))
}

func TestLoginOmitsBearerHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(crm.Token{AccessToken: "fresh", TokenType: "bearer"})
	}, "")

	token, err := client.Login(context.Background(), crm.Credentials{Email: "a@b.c", Password: "pw"})
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Equal(t, "fresh", token.AccessToken)
}
