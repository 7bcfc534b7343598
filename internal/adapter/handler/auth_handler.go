package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/jutta-lagani/storefront/internal/core/service"
)

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccountJSON(account))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Anything in the anonymous basket follows the user across login.
	oldToken := actorFrom(r).Token
	if err := h.cart.MergeGuestCart(r.Context(), oldToken, account.ID); err != nil {
		writeError(w, err)
		return
	}

	if err := h.startSession(w, r, account.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}

// AdminLogin is the separate admin surface; a valid customer credential
// fails here exactly like a bad password.
func (h *HTTPHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accounts.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.startSession(w, r, account.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := actorFrom(r).Token; token != "" {
		if err := h.sessions.DeleteSession(r.Context(), token); err != nil {
			writeError(w, err)
			return
		}
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

func (h *HTTPHandler) Profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toAccountJSON(actorFrom(r).Account))
}

type profileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

func (h *HTTPHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	account, err := h.accounts.UpdateProfile(r.Context(), actorFrom(r).Account.ID, service.ProfileInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountJSON(account))
}

// startSession rotates the session token at the authentication boundary.
func (h *HTTPHandler) startSession(w http.ResponseWriter, r *http.Request, accountID int64) error {
	token := uuid.NewString()
	if err := h.sessions.PutSession(r.Context(), token, accountID); err != nil {
		return err
	}
	h.setSessionCookie(w, token)
	return nil
}
