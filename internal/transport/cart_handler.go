package transport

import (
	"errors"
	"net/http"
	"strconv"

	"bazaar/internal/middleware"
	"bazaar/internal/repository"
	"bazaar/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionCookieName identifies the storefront session carrying the cart
const SessionCookieName = "bazaar_session"

// CartResponse is the payload for the cart view
type CartResponse struct {
	Items interface{} `json:"items"`
}

// CartHandler handles HTTP requests for the session cart. The cart is keyed
// by a session identifier carried in a cookie; the handler mints one on first
// use and passes it explicitly to the cart service.
type CartHandler struct {
	carts    service.CartService
	products service.ProductService
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, products service.ProductService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all cart routes. Mutations are nested under the
// product they act on; the cart view and the redirect target stay at /cart.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/cart", h.Show)
	r.Patch("/products/{productID}/cart", h.SetQuantity)
	r.Delete("/products/{productID}/cart", h.Remove)
}

// sessionID returns the request's cart session identifier, minting a new one
// and setting the cookie when the request carries none
func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	sessionID := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

// Show handles displaying the session's cart
func (h *CartHandler) Show(w http.ResponseWriter, r *http.Request) {
	items, err := h.carts.Items(r.Context(), h.sessionID(w, r))
	if err != nil {
		h.logger.Error("Failed to read cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to read cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{Items: items})
}

// SetQuantity handles setting the quantity of a product in the cart
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	// The product must exist before it can be carted
	if _, err := h.products.Get(r.Context(), productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	if err := h.carts.SetQuantity(r.Context(), h.sessionID(w, r), productID, quantity); err != nil {
		if errors.Is(err, service.ErrInvalidQuantity) {
			middleware.RespondWithError(w, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		h.logger.Error("Failed to update cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart")
		return
	}

	http.Redirect(w, r, "/cart", http.StatusFound)
}

// Remove handles removing a product from the cart
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	if err := h.carts.Remove(r.Context(), h.sessionID(w, r), productID); err != nil {
		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		return
	}

	http.Redirect(w, r, "/cart", http.StatusFound)
}
