package pages

import (
	"context"
	"net/http"

	"github.com/gmtc-io/crm/internal/crm"
	"github.com/gmtc-io/crm/internal/querycache"
)

func customerFormDefaults() map[string]string {
	return map[string]string{"customer_type": "individual"}
}

func (h *Handler) loadCustomers(ctx context.Context, params crm.CustomerListParams) (crm.ListResult[crm.Customer], error) {
	key := querycache.Key{Kind: kindCustomers, Query: params.Values().Encode()}
	return querycache.Get(ctx, h.cache, key, func(ctx context.Context) (crm.ListResult[crm.Customer], error) {
		return h.api.Customers.List(ctx, params)
	})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	params := crm.CustomerListParams{ListParams: listParams(r)}

	data := map[string]any{
		"Search":   params.Search,
		"ShowForm": showAddForm(r),
		"Form":     customerFormDefaults(),
		"Error":    "",
		"Result":   crm.ListResult[crm.Customer]{Items: []crm.Customer{}},
	}

	result, err := h.loadCustomers(r.Context(), params)
	if err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Error("list customers failed", "error", err)
		data["Error"] = loadErrorMessage(err)
	} else {
		data["Result"] = result
	}

	h.render(w, r, "pages/customers_list.html", "Customers", data, http.StatusOK)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	form := formValues(r, "name", "contact_person", "email", "phone", "company_name", "customer_type", "notes")
	payload := crm.CustomerCreate{
		Name:          form["name"],
		ContactPerson: optional(form["contact_person"]),
		Email:         optional(form["email"]),
		Phone:         optional(form["phone"]),
		CompanyName:   optional(form["company_name"]),
		CustomerType:  optional(form["customer_type"]),
		Notes:         optional(form["notes"]),
	}

	if _, err := h.api.Customers.Create(r.Context(), payload); err != nil {
		if crm.IsUnauthorized(err) {
			h.forceLogin(w, r)
			return
		}
		h.logger.Warn("create customer rejected", "error", err)

		// Keep the draft on screen next to the current list.
		result, lerr := h.loadCustomers(r.Context(), crm.CustomerListParams{ListParams: crm.ListParams{Page: 1, PerPage: listPerPage}})
		if lerr != nil {
			result = crm.ListResult[crm.Customer]{Items: []crm.Customer{}}
		}
		h.render(w, r, "pages/customers_list.html", "Customers", map[string]any{
			"Search":   "",
			"ShowForm": true,
			"Form":     form,
			"Error":    submitErrorMessage(err),
			"Result":   result,
		}, http.StatusBadRequest)
		return
	}

	h.cache.Invalidate(kindCustomers)
	h.redirectWithFlash(w, r, "/customers", "success", "Customer created")
}
