package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jutta-lagani/storefront/internal/core/service"
	"github.com/jutta-lagani/storefront/internal/port"
)

// HTTPHandler is the storefront's JSON API: catalog, cart, checkout,
// accounts, wishlist, and the admin back office.
type HTTPHandler struct {
	accounts *service.AccountService
	catalog  *service.CatalogService
	cart     *service.CartService
	orders   *service.OrderService
	wishlist *service.WishlistService
	admin    *service.AdminService
	pricing  service.Pricing
	sessions port.SessionStore

	cookieName string
}

func NewHTTPHandler(
	accounts *service.AccountService,
	catalog *service.CatalogService,
	cart *service.CartService,
	orders *service.OrderService,
	wishlist *service.WishlistService,
	admin *service.AdminService,
	pricing service.Pricing,
	sessions port.SessionStore,
	cookieName string,
) *HTTPHandler {
	return &HTTPHandler{
		accounts:   accounts,
		catalog:    catalog,
		cart:       cart,
		orders:     orders,
		wishlist:   wishlist,
		admin:      admin,
		pricing:    pricing,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

func (h *HTTPHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.withActor)

		r.Get("/home", h.Home)
		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Get("/categories", h.CategoryCounts)

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Get("/cart", h.ViewCart)
		r.Post("/cart", h.AddToCart)
		r.Put("/cart/{lineID}", h.UpdateCartLine)
		r.Delete("/cart/{lineID}", h.RemoveCartLine)
		r.Delete("/cart", h.ClearCart)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/profile", h.Profile)
			r.Put("/profile", h.UpdateProfile)

			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.MyOrders)
			r.Get("/orders/{id}", h.OrderDetail)

			r.Get("/wishlist", h.Wishlist)
			r.Post("/wishlist", h.AddToWishlist)
			r.Delete("/wishlist/{id}", h.RemoveFromWishlist)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(h.requireAdmin)

				r.Get("/dashboard", h.Dashboard)
				r.Get("/products", h.AdminListProducts)
				r.Post("/products", h.AdminCreateProduct)
				r.Put("/products/{id}", h.AdminUpdateProduct)
				r.Delete("/products/{id}", h.AdminDeleteProduct)
				r.Get("/orders", h.AdminListOrders)
				r.Get("/orders/{id}", h.AdminGetOrder)
				r.Put("/orders/{id}/status", h.AdminUpdateOrderStatus)
			})
		})
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError maps service failures to HTTP statuses. Anything unrecognized
// is logged and surfaced as a generic internal error; internals never leak.
func writeError(w http.ResponseWriter, err error) {
	var validation *service.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: validation.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
	case errors.Is(err, service.ErrEmptyCart):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "cart is empty"})
	case errors.Is(err, service.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "insufficient stock"})
	case errors.Is(err, service.ErrDuplicateRequest):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "duplicate request"})
	case errors.Is(err, service.ErrEmailTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "email already registered"})
	case errors.Is(err, service.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "username already taken"})
	default:
		log.Printf("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
