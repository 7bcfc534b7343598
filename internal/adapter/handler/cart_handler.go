package handler

import (
	"net/http"
)

func (h *HTTPHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r)

	lines, err := h.cart.Resolve(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	// Tax applies at checkout, not here.
	totals := h.pricing.CartView(lines)
	writeJSON(w, http.StatusOK, toCartJSON(lines, totals.Subtotal, totals.Shipping, totals.Total))
}

type addToCartRequest struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (h *HTTPHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.cart.Add(r.Context(), actorFrom(r), req.ProductID, req.Quantity, req.Size, req.Color); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "added to cart"})
}

type updateCartRequest struct {
	Quantity int `json:"quantity"`
}

func (h *HTTPHandler) UpdateCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cart line id"})
		return
	}

	var req updateCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	if err := h.cart.UpdateQuantity(r.Context(), actorFrom(r), lineID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "cart updated"})
}

func (h *HTTPHandler) RemoveCartLine(w http.ResponseWriter, r *http.Request) {
	lineID, err := pathID(r, "lineID")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid cart line id"})
		return
	}

	if err := h.cart.Remove(r.Context(), actorFrom(r), lineID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "removed from cart"})
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), actorFrom(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "cart cleared"})
}
