package handler

import (
	"net/http"

	"github.com/jutta-lagani/storefront/internal/core/service"
)

type checkoutRequest struct {
	ShippingName    string `json:"shipping_name"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	ShippingPhone   string `json:"shipping_phone"`
	PaymentMethod   string `json:"payment_method"`
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.orders.PlaceOrder(r.Context(), actorFrom(r).Account, service.CheckoutInput{
		ShippingName:    req.ShippingName,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingPhone:   req.ShippingPhone,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderJSON(*order))
}

func (h *HTTPHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListOrders(r.Context(), actorFrom(r).Account.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListJSON(orders))
}

func (h *HTTPHandler) OrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	order, err := h.orders.GetOrder(r.Context(), actorFrom(r).Account, orderID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderJSON(*order))
}

type wishlistAddRequest struct {
	ProductID int64 `json:"product_id"`
}

func (h *HTTPHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	items, err := h.wishlist.List(r.Context(), actorFrom(r).Account.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWishlistJSON(items))
}

func (h *HTTPHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistAddRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	added, err := h.wishlist.Add(r.Context(), actorFrom(r).Account.ID, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !added {
		writeJSON(w, http.StatusOK, messageResponse{Message: "already in wishlist"})
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "added to wishlist"})
}

func (h *HTTPHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid wishlist item id"})
		return
	}

	if err := h.wishlist.Remove(r.Context(), actorFrom(r).Account.ID, itemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "removed from wishlist"})
}
