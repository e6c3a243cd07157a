package pages

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/querycache"
)

func supplierFormDefaults() map[string]string {
	return map[string]string{}
}

func (h *Handler) loadSuppliers(ctx context.Context, params crm.SupplierListParams) (crm.ListResult[crm.Supplier], error) {
	key := querycache.Key{Kind: kindSuppliers, Query: params.Values().Encode()}
	return querycache.Get(ctx, h.cache, key, func(ctx context.Context) (crm.ListResult[crm.Supplier], error) {
		return h.api.Suppliers.List(ctx, params)
	})
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	params := crm.SupplierListParams{ListParams: listParams(r)}

	data := map[string]any{
		"Search":   params.Search,
		"ShowForm": showAddForm(r),
		"Form":     supplierFormDefaults(),
		"Error":    "",
		"Result":   crm.ListResult[crm.Supplier]{Items: []crm.Supplier{}},
	}

	result, err := h.loadSuppliers(r.Context(), params)
	if err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Error("list suppliers failed", "error", err)
		data["Error"] = loadErrorMessage(err)
	} else {
		data["Result"] = result
	}

	h.render(w, r, "pages/suppliers_list.html", "Suppliers", data, http.StatusOK)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := formValues(r, "name", "contact_person", "email", "phone", "rating", "notes")
	payload := crm.SupplierCreate{
		Name:          form["name"],
		ContactPerson: optional(form["contact_person"]),
		Email:         optional(form["email"]),
		Phone:         optional(form["phone"]),
		Notes:         optional(form["notes"]),
	}
	if form["rating"] != "" {
		if rating, err := strconv.Atoi(form["rating"]); err == nil {
			payload.Rating = &rating
		}
	}

	if _, err := h.api.Suppliers.Create(r.Context(), payload); err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Warn("create supplier rejected", "error", err)

		result, lerr := h.loadSuppliers(r.Context(), crm.SupplierListParams{ListParams: crm.ListParams{Page: 1, PerPage: listPerPage}})
		if lerr != nil {
			result = crm.ListResult[crm.Supplier]{Items: []crm.Supplier{}}
		}
		h.render(w, r, "pages/suppliers_list.html", "Suppliers", map[string]any{
			"Search":   "",
			"ShowForm": true,
			"Form":     form,
			"Error":    submitErrorMessage(err),
			"Result":   result,
		}, http.StatusBadRequest)
		return
	}

	h.cache.Invalidate(kindSuppliers)
	h.redirectWithFlash(w, r, "/suppliers", "success", "Supplier created")
}
