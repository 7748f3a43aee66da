package transport

import (
	"net/http"

	"bazaar/internal/middleware"
	"bazaar/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the merchant login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token    string          `json:"token"`
	Merchant MerchantProfile `json:"merchant"`
}

// MerchantProfile represents public merchant data
type MerchantProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// MerchantHandler handles HTTP requests for merchant operations
type MerchantHandler struct {
	merchants service.MerchantService
	logger    *zap.Logger
}

// NewMerchantHandler creates a new MerchantHandler
func NewMerchantHandler(merchants service.MerchantService, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{
		merchants: merchants,
		logger:    logger,
	}
}

// RegisterRoutes registers all merchant routes
func (h *MerchantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/merchants", h.List)
	r.Post("/merchants/login", h.Login)
}

// List handles listing all merchants
func (h *MerchantHandler) List(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.merchants.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list merchants", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list merchants")
		return
	}

	profiles := make([]MerchantProfile, 0, len(merchants))
	for _, m := range merchants {
		profiles = append(profiles, MerchantProfile{ID: m.ID.String(), Username: m.Username})
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"merchants": profiles})
}

// Login handles merchant authentication
func (h *MerchantHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, merchant, err := h.merchants.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if err == service.ErrInvalidCredentials {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		h.logger.Error("Login failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		return
	}

	h.logger.Info("Merchant logged in", zap.String("merchant_id", merchant.ID.String()))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		Merchant: MerchantProfile{ID: merchant.ID.String(), Username: merchant.Username},
	})
}
