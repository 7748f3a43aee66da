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

// ProductListResponse is the payload for product listing endpoints
type ProductListResponse struct {
	Products interface{} `json:"products"`
	Total    int         `json:"total,omitempty"`
	Page     int         `json:"page,omitempty"`
	PageSize int         `json:"page_size,omitempty"`
}

// NewProductFormResponse carries the reference data a creation form needs
type NewProductFormResponse struct {
	Categories interface{} `json:"categories"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	products   service.ProductService
	merchants  service.MerchantService
	categories service.CategoryService
	logger     *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(
	products service.ProductService,
	merchants service.MerchantService,
	categories service.CategoryService,
	logger *zap.Logger,
) *ProductHandler {
	return &ProductHandler{
		products:   products,
		merchants:  merchants,
		categories: categories,
		logger:     logger,
	}
}

// RegisterRoutes registers all product routes, including the merchant- and
// category-nested collections
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.List)
	r.Get("/products/{productID}", h.Show)
	r.Patch("/products/{productID}/toggle_active", h.ToggleActive)

	r.Get("/merchants/{merchantID}/products", h.ListByMerchant)
	r.Get("/merchants/{merchantID}/products/new", h.NewForm)
	r.Post("/merchants/{merchantID}/products", h.Create)
	r.Get("/categories/{categoryID}/products", h.ListByCategory)
}

// identityFrom builds the caller identity from the request context
func identityFrom(r *http.Request) service.Identity {
	if merchantID, ok := middleware.MerchantID(r.Context()); ok {
		return service.Identity{MerchantID: merchantID, Authenticated: true}
	}
	return service.Anonymous
}

// List handles listing all products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	products, total, err := h.products.List(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Show handles displaying a single product. Ids that do not parse are
// treated the same as ids with no matching row: not found.
func (h *ProductHandler) Show(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	product, err := h.products.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListByMerchant handles the merchant-nested product collection. A merchant
// id that does not parse or does not resolve redirects to the merchants
// index rather than failing the request.
func (h *ProductHandler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID, err := uuid.Parse(chi.URLParam(r, "merchantID"))
	if err != nil {
		http.Redirect(w, r, "/merchants", http.StatusFound)
		return
	}

	merchant, err := h.merchants.Get(r.Context(), merchantID)
	if err != nil {
		if errors.Is(err, repository.ErrMerchantNotFound) {
			http.Redirect(w, r, "/merchants", http.StatusFound)
			return
		}
		h.logger.Error("Failed to get merchant", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get merchant")
		return
	}

	products, err := h.products.ListByMerchant(r.Context(), merchant.ID)
	if err != nil {
		h.logger.Error("Failed to list merchant products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{Products: products})
}

// ListByCategory handles the category-nested product collection, with the
// same redirect-to-index recovery as ListByMerchant
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := uuid.Parse(chi.URLParam(r, "categoryID"))
	if err != nil {
		http.Redirect(w, r, "/categories", http.StatusFound)
		return
	}

	category, err := h.categories.Get(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			http.Redirect(w, r, "/categories", http.StatusFound)
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	products, err := h.products.ListByCategory(r.Context(), category.ID)
	if err != nil {
		h.logger.Error("Failed to list category products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{Products: products})
}

// NewForm serves the reference data for the creation form. Anonymous callers
// are sent home.
func (h *ProductHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	caller := identityFrom(r)
	if !caller.Authenticated {
		http.Redirect(w, r, service.HomePath, http.StatusFound)
		return
	}

	categories, err := h.categories.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, NewProductFormResponse{Categories: categories})
}

// Create handles product creation. Anonymous callers are redirected home
// before validation runs; an invalid payload yields a 400 enumerating the
// failed fields with nothing persisted; success redirects to the new
// product's detail view.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller := identityFrom(r)
	if !caller.Authenticated {
		http.Redirect(w, r, service.HomePath, http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form payload")
		return
	}

	form := service.ProductForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		ImgURL:      r.PostFormValue("img_url"),
		Inventory:   r.PostFormValue("inventory"),
		Price:       r.PostFormValue("price"),
		CategoryIDs: r.PostForm["category_ids"],
	}

	product, fieldErrors, err := h.products.Create(r.Context(), caller.MerchantID, form)
	if err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	if len(fieldErrors) > 0 {
		h.logger.Debug("Product creation rejected", zap.Int("invalid_fields", len(fieldErrors)))
		middleware.RespondWithValidationErrors(w, toValidationErrors(fieldErrors))
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("merchant_id", caller.MerchantID.String()),
	)
	http.Redirect(w, r, service.ProductPath(product.ID), http.StatusFound)
}

// ToggleActive handles the visibility toggle. Anonymous callers are sent
// home without the product id even being resolved; authenticated callers get
// a 404 for an unresolvable product; everything else is a redirect to the
// product's detail view, with the flag flipped only for the owner.
func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	caller := identityFrom(r)
	if !caller.Authenticated {
		http.Redirect(w, r, service.HomePath, http.StatusFound)
		return
	}

	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		return
	}

	outcome, err := h.products.ToggleActive(r.Context(), productID, caller)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to toggle product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to toggle product")
		return
	}

	if outcome.Toggled {
		h.logger.Info("Product visibility toggled",
			zap.String("product_id", productID.String()),
			zap.Bool("active", outcome.Product.Active),
		)
	}

	http.Redirect(w, r, outcome.RedirectTo, http.StatusFound)
}

func toValidationErrors(fieldErrors []service.FieldError) []middleware.ValidationError {
	errors := make([]middleware.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errors = append(errors, middleware.ValidationError{Field: fe.Field, Message: fe.Message})
	}
	return errors
}
