package pages

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/querycache"
)

func partFormDefaults() map[string]string {
	return map[string]string{"current_stock": "0", "minimum_stock": "0"}
}

func (h *Handler) loadParts(ctx context.Context, params crm.PartListParams) (crm.ListResult[crm.Part], error) {
	key := querycache.Key{Kind: kindParts, Query: params.Values().Encode()}
	return querycache.Get(ctx, h.cache, key, func(ctx context.Context) (crm.ListResult[crm.Part], error) {
		return h.api.Parts.List(ctx, params)
	})
}

// loadCategories shares the parts cache kind so a new part with a new
// category shows up in the datalist right away.
func (h *Handler) loadCategories(ctx context.Context) ([]string, error) {
	key := querycache.Key{Kind: kindParts, Query: "categories"}
	return querycache.Get(ctx, h.cache, key, func(ctx context.Context) ([]string, error) {
		return h.api.Parts.Categories(ctx)
	})
}

func (h *Handler) listParts(w http.ResponseWriter, r *http.Request) {
	params := crm.PartListParams{ListParams: listParams(r)}

	data := map[string]any{
		"Search":     params.Search,
		"ShowForm":   showAddForm(r),
		"Form":       partFormDefaults(),
		"Error":      "",
		"Result":     crm.ListResult[crm.Part]{Items: []crm.Part{}},
		"Categories": []string{},
	}

	result, err := h.loadParts(r.Context(), params)
	if err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Error("list parts failed", "error", err)
		data["Error"] = loadErrorMessage(err)
	} else {
		data["Result"] = result
	}

	if data["ShowForm"] == true {
		if categories, err := h.loadCategories(r.Context()); err == nil {
			data["Categories"] = categories
		}
	}

	h.render(w, r, "pages/parts_list.html", "Parts", data, http.StatusOK)
}

func (h *Handler) createPart(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := formValues(r, "sku", "name", "description", "category", "current_stock", "minimum_stock", "unit_price")
	currentStock, _ := strconv.Atoi(form["current_stock"])
	minimumStock, _ := strconv.Atoi(form["minimum_stock"])
	payload := crm.PartCreate{
		SKU:          form["sku"],
		Name:         form["name"],
		Description:  optional(form["description"]),
		Category:     optional(form["category"]),
		CurrentStock: &currentStock,
		MinimumStock: &minimumStock,
		UnitPrice:    optional(form["unit_price"]),
	}

	if _, err := h.api.Parts.Create(r.Context(), payload); err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Warn("create part rejected", "error", err)

		result, lerr := h.loadParts(r.Context(), crm.PartListParams{ListParams: crm.ListParams{Page: 1, PerPage: listPerPage}})
		if lerr != nil {
			result = crm.ListResult[crm.Part]{Items: []crm.Part{}}
		}
		categories, _ := h.loadCategories(r.Context())
		h.render(w, r, "pages/parts_list.html", "Parts", map[string]any{
			"Search":     "",
			"ShowForm":   true,
			"Form":       form,
			"Error":      submitErrorMessage(err),
			"Result":     result,
			"Categories": categories,
		}, http.StatusBadRequest)
		return
	}

	h.cache.Invalidate(kindParts)
	h.redirectWithFlash(w, r, "/parts", "success", "Part created")
}
