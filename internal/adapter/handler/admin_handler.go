package handler

import (
	"net/http"
	"strconv"

	"github.com/jutta-lagani/storefront/internal/core/domain"
	"github.com/jutta-lagani/storefront/internal/core/service"
)

type dashboardResponse struct {
	TotalProducts int           `json:"total_products"`
	TotalOrders   int           `json:"total_orders"`
	TotalAccounts int           `json:"total_accounts"`
	TotalRevenue  int64         `json:"total_revenue"`
	RecentOrders  []orderJSON   `json:"recent_orders"`
	LowStock      []productJSON `json:"low_stock"`
}

func (h *HTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalProducts: stats.TotalProducts,
		TotalOrders:   stats.TotalOrders,
		TotalAccounts: stats.TotalAccounts,
		TotalRevenue:  int64(stats.TotalRevenue),
		RecentOrders:  toOrderListJSON(stats.RecentOrders),
		LowStock:      toProductListJSON(stats.LowStock),
	})
}

func (h *HTTPHandler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.admin.ListProducts(r.Context(), q.Get("category"), page)
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

type productRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price"`
	Category      string `json:"category"`
	Subcategory   string `json:"subcategory"`
	Brand         string `json:"brand"`
	Color         string `json:"color"`
	Size          string `json:"size"`
	Material      string `json:"material"`
	Stock         int    `json:"stock"`
	IsAvailable   bool   `json:"is_available"`
	Image         string `json:"image"`
}

func (req productRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         domain.Money(req.Price),
		OriginalPrice: domain.Money(req.OriginalPrice),
		Category:      req.Category,
		Subcategory:   req.Subcategory,
		Brand:         req.Brand,
		Color:         req.Color,
		Size:          req.Size,
		Material:      req.Material,
		Stock:         req.Stock,
		IsAvailable:   req.IsAvailable,
		Image:         req.Image,
	}
}

func (h *HTTPHandler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(*product))
}

func (h *HTTPHandler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	product, err := h.admin.UpdateProduct(r.Context(), id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(*product))
}

func (h *HTTPHandler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid product id"})
		return
	}

	if err := h.admin.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "product deleted"})
}

type orderPageResponse struct {
	Orders  []orderJSON `json:"orders"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

func (h *HTTPHandler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.admin.ListOrders(r.Context(), q.Get("status"), page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orderPageResponse{
		Orders:  toOrderListJSON(result.Orders),
		Total:   result.Total,
		Page:    result.Page,
		PerPage: result.PerPage,
	})
}

func (h *HTTPHandler) AdminGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.admin.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(*order))
}

type orderStatusRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	var req orderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.admin.UpdateOrderStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "order status updated"})
}
