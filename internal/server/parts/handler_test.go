package parts

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, *mockRepository) {
	t.Helper()
	repo := newMockRepository()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, NewService(repo))
	r := chi.NewRouter()
	r.Route("/parts", handler.MountRoutes)
	return r, repo
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetPart(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/parts", map[string]any{
		"sku":           "BRK-100",
		"name":          "Brake pad",
		"category":      "brakes",
		"current_stock": 4,
		"minimum_stock": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Part
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "BRK-100", created.SKU)
	assert.True(t, created.IsLowStock)
	assert.Equal(t, StatusLowStock, created.StockStatus)

	rec = doJSON(t, r, http.MethodGet, "/parts/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched Part
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreatePartValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/parts", map[string]any{"name": "no sku"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = doJSON(t, r, http.MethodPost, "/parts", map[string]any{
		"sku":           "BRK-101",
		"name":          "Brake disc",
		"current_stock": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreatePartMalformedBody(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/parts", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPartInvalidID(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/parts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPartNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/parts/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoriesRouteIsNotAPartID(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, category := range []string{"brakes", "filters"} {
		rec := doJSON(t, r, http.MethodPost, "/parts", map[string]any{
			"sku":      "CAT-" + category,
			"name":     "part in " + category,
			"category": category,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, r, http.MethodGet, "/parts/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&categories))
	assert.ElementsMatch(t, []string{"brakes", "filters"}, categories)
}

func TestAdjustStockEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/parts", map[string]any{
		"sku":           "OIL-1",
		"name":          "Oil filter",
		"current_stock": 5,
		"minimum_stock": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var part Part
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&part))

	rec = doJSON(t, r, http.MethodPatch, "/parts/"+part.ID.String()+"/stock", map[string]any{"quantity": -3})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&part))
	assert.Equal(t, 2, part.CurrentStock)

	rec = doJSON(t, r, http.MethodPatch, "/parts/"+part.ID.String()+"/stock", map[string]any{"quantity": -10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeletePart(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/parts", map[string]any{"sku": "DEL-1", "name": "gone soon"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var part Part
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&part))

	rec = doJSON(t, r, http.MethodDelete, "/parts/"+part.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/parts/"+part.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPartsEnvelope(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/parts?page=2&per_page=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Items   []Part `json:"items"`
		Total   int    `json:"total"`
		Page    int    `json:"page"`
		PerPage int    `json:"per_page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.NotNil(t, body.Items)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.PerPage)
}
