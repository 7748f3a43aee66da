package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bazaar/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrMerchantNotFound      = errors.New("merchant not found")
	ErrMerchantAlreadyExists = errors.New("merchant with this username already exists")
)

// MerchantRepository defines the interface for merchant data access
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	List(ctx context.Context) ([]*domain.Merchant, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	FindByUsername(ctx context.Context, username string) (*domain.Merchant, error)
}

type merchantRepository struct {
	db *sql.DB
}

// NewMerchantRepository creates a new instance of MerchantRepository
func NewMerchantRepository(db *sql.DB) MerchantRepository {
	return &merchantRepository{db: db}
}

// Create inserts a new merchant into the database using parameterized queries
func (r *merchantRepository) Create(ctx context.Context, merchant *domain.Merchant) error {
	query := `
		INSERT INTO merchants (id, username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		merchant.ID,
		merchant.Username,
		merchant.Email,
		merchant.PasswordHash,
		merchant.CreatedAt,
		merchant.UpdatedAt,
	)

	if err != nil {
		// Unique constraint violation on the username column (SQLSTATE 23505)
		if strings.Contains(err.Error(), "merchants_username_key") {
			return ErrMerchantAlreadyExists
		}
		return fmt.Errorf("failed to create merchant: %w", err)
	}

	return nil
}

// List retrieves all merchants
func (r *merchantRepository) List(ctx context.Context) ([]*domain.Merchant, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM merchants
		ORDER BY username ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	merchants := []*domain.Merchant{}
	for rows.Next() {
		merchant := &domain.Merchant{}
		err := rows.Scan(
			&merchant.ID,
			&merchant.Username,
			&merchant.Email,
			&merchant.PasswordHash,
			&merchant.CreatedAt,
			&merchant.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, merchant)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchants: %w", err)
	}

	return merchants, nil
}

// FindByID retrieves a merchant by ID using parameterized queries
func (r *merchantRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM merchants
		WHERE id = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsername retrieves a merchant by username using parameterized queries
func (r *merchantRepository) FindByUsername(ctx context.Context, username string) (*domain.Merchant, error) {
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM merchants
		WHERE username = $1
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, username))
}

func (r *merchantRepository) scanOne(row *sql.Row) (*domain.Merchant, error) {
	merchant := &domain.Merchant{}
	err := row.Scan(
		&merchant.ID,
		&merchant.Username,
		&merchant.Email,
		&merchant.PasswordHash,
		&merchant.CreatedAt,
		&merchant.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrMerchantNotFound
		}
		return nil, fmt.Errorf("failed to find merchant: %w", err)
	}

	return merchant, nil
}
