package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jutta-lagani/storefront/internal/core/service"
)

type catalogPageResponse struct {
	Products []productJSON `json:"products"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PerPage  int           `json:"per_page"`
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.catalog.List(r.Context(), service.CatalogListInput{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Page:     page,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, catalogPageResponse{
		Products: toProductListJSON(result.Products),
		Total:    result.Total,
		Page:     result.Page,
		PerPage:  result.PerPage,
	})
}

type productDetailResponse struct {
	Product productJSON   `json:"product"`
	Related []productJSON `json:"related"`
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	product, related, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, productDetailResponse{
		Product: toProductJSON(*product),
		Related: toProductListJSON(related),
	})
}

func (h *HTTPHandler) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalog.CategoryCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make(map[string]int, len(counts))
	for c, n := range counts {
		out[string(c)] = n
	}
	writeJSON(w, http.StatusOK, out)
}

type homeResponse struct {
	Featured    []productJSON  `json:"featured"`
	NewArrivals []productJSON  `json:"new_arrivals"`
	Categories  map[string]int `json:"categories"`
}

func (h *HTTPHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.catalog.Featured(r.Context(), 8)
	if err != nil {
		writeError(w, err)
		return
	}
	arrivals, err := h.catalog.NewArrivals(r.Context(), 4)
	if err != nil {
		writeError(w, err)
		return
	}
	counts, err := h.catalog.CategoryCounts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	categories := make(map[string]int, len(counts))
	for c, n := range counts {
		categories[string(c)] = n
	}

	writeJSON(w, http.StatusOK, homeResponse{
		Featured:    toProductListJSON(featured),
		NewArrivals: toProductListJSON(arrivals),
		Categories:  categories,
	})
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
