package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bazaar/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product, categoryIDs []uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error)
	ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product and its category associations in a single
// transaction. Category ids that do not resolve to an existing category are
// skipped rather than rejected; duplicate ids collapse to one association.
func (r *productRepository) Create(ctx context.Context, product *domain.Product, categoryIDs []uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertProduct := `
		INSERT INTO products (id, name, description, img_url, inventory, price, active, merchant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(
		ctx,
		insertProduct,
		product.ID,
		product.Name,
		product.Description,
		product.ImgURL,
		product.Inventory,
		product.Price,
		product.Active,
		product.MerchantID,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	// The SELECT against categories drops ids that do not exist; ON CONFLICT
	// collapses duplicates in the input list.
	insertAssociation := `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, id FROM categories WHERE id = $2
		ON CONFLICT (product_id, category_id) DO NOTHING
	`

	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, insertAssociation, product.ID, categoryID); err != nil {
			return fmt.Errorf("failed to associate category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit product creation: %w", err)
	}

	return nil
}

// FindByID retrieves a product by ID, including its categories
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, name, description, img_url, inventory, price, active, merchant_id, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.ImgURL,
		&product.Inventory,
		&product.Price,
		&product.Active,
		&product.MerchantID,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	categories, err := r.categoriesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Categories = categories

	return product, nil
}

// List retrieves products with pagination
func (r *productRepository) List(ctx context.Context, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := `
		SELECT id, name, description, img_url, inventory, price, active, merchant_id, created_at, updated_at
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListByMerchant retrieves all products owned by a merchant
func (r *productRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT id, name, description, img_url, inventory, price, active, merchant_id, created_at, updated_at
		FROM products
		WHERE merchant_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchant products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// ListByCategory retrieves all products associated with a category
func (r *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.img_url, p.inventory, p.price, p.active, p.merchant_id, p.created_at, p.updated_at
		FROM products p
		JOIN product_categories pc ON pc.product_id = p.id
		WHERE pc.category_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list category products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// SetActive writes the active flag of a product. It is the only mutation the
// visibility workflow performs.
func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE products SET active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to set product active flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *productRepository) categoriesFor(ctx context.Context, productID uuid.UUID) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.created_at
		FROM categories c
		JOIN product_categories pc ON pc.category_id = c.id
		WHERE pc.product_id = $1
		ORDER BY c.name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category := domain.Category{}
		err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Description,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product categories: %w", err)
	}

	return categories, nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Description,
			&product.ImgURL,
			&product.Inventory,
			&product.Price,
			&product.Active,
			&product.MerchantID,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
