package service

import (
	"context"
	"fmt"
	"time"

	"bazaar/internal/domain"
	"bazaar/internal/repository"

	"github.com/google/uuid"
)

// HomePath is the storefront root, the landing target for unauthenticated
// mutation attempts.
const HomePath = "/"

// ProductPath returns the detail view path for a product
func ProductPath(id uuid.UUID) string {
	return "/products/" + id.String()
}

// Identity describes the caller of a storefront operation: either anonymous
// or an authenticated merchant.
type Identity struct {
	MerchantID    uuid.UUID
	Authenticated bool
}

// Anonymous is the identity of a request with no merchant session
var Anonymous = Identity{}

// ToggleOutcome is the result of a toggle_active attempt. Rejected attempts
// still carry a redirect target: unauthenticated and non-owner callers are
// redirected rather than handed an auth error, with no state change.
type ToggleOutcome struct {
	RedirectTo string
	Toggled    bool
	Product    *domain.Product
}

// CanToggle reports whether a merchant may flip a product's active flag.
// Only the owning merchant may.
func CanToggle(merchantID uuid.UUID, product *domain.Product) bool {
	return product != nil && product.MerchantID == merchantID
}

// ProductService defines the interface for product business logic
type ProductService interface {
	List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	Create(ctx context.Context, ownerID uuid.UUID, form ProductForm) (*domain.Product, []FieldError, error)
	ToggleActive(ctx context.Context, productID uuid.UUID, caller Identity) (ToggleOutcome, error)
}

type productService struct {
	products repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

// List retrieves a page of products
func (s *productService) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	products, total, err := s.products.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Get retrieves a single product with its categories
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// ListByMerchant retrieves the products owned by a merchant
func (s *productService) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*domain.Product, error) {
	products, err := s.products.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant products: %w", err)
	}
	return products, nil
}

// ListByCategory retrieves the products associated with a category
func (s *productService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	products, err := s.products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category products: %w", err)
	}
	return products, nil
}

// Create validates a creation payload and, when it passes, persists the new
// product together with its category associations as one atomic unit. On
// validation failure nothing is written and the field errors are returned.
// The product is owned by the creating merchant and starts out active.
func (s *productService) Create(ctx context.Context, ownerID uuid.UUID, form ProductForm) (*domain.Product, []FieldError, error) {
	command, fieldErrors := ValidateProductForm(form)
	if len(fieldErrors) > 0 {
		return nil, fieldErrors, nil
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        command.Name,
		Description: command.Description,
		ImgURL:      command.ImgURL,
		Inventory:   command.Inventory,
		Price:       command.Price,
		Active:      true,
		MerchantID:  ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product, command.CategoryIDs); err != nil {
		return nil, nil, fmt.Errorf("failed to create product: %w", err)
	}

	created, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload created product: %w", err)
	}

	return created, nil, nil
}

// ToggleActive flips a product's active flag when the caller owns it.
//
// An anonymous caller is silently ignored and sent back to the home page,
// even when the product id does not resolve. An authenticated caller toggling
// a missing product gets ErrProductNotFound. An authenticated non-owner is
// redirected to the product's detail view with the flag untouched, which is
// indistinguishable at the transport level from a successful toggle.
func (s *productService) ToggleActive(ctx context.Context, productID uuid.UUID, caller Identity) (ToggleOutcome, error) {
	if !caller.Authenticated {
		return ToggleOutcome{RedirectTo: HomePath}, nil
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ToggleOutcome{}, err
	}

	if !CanToggle(caller.MerchantID, product) {
		return ToggleOutcome{RedirectTo: ProductPath(product.ID), Product: product}, nil
	}

	if err := s.products.SetActive(ctx, product.ID, !product.Active); err != nil {
		return ToggleOutcome{}, fmt.Errorf("failed to toggle product: %w", err)
	}

	product.Active = !product.Active
	return ToggleOutcome{
		RedirectTo: ProductPath(product.ID),
		Toggled:    true,
		Product:    product,
	}, nil
}
