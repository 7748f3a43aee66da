package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"bazaar/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"

	// CartTTL is how long an untouched session cart survives
	CartTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
)

// CartService stores session carts in Redis. Each cart is keyed by an
// explicit session identifier supplied by the caller, mapping product id to
// quantity. There is no ambient cart state anywhere in the process.
type CartService interface {
	Items(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, sessionID string, productID uuid.UUID) error
}

type cartService struct {
	client *redis.Client
}

// NewCartService creates a new instance of CartService
func NewCartService(client *redis.Client) CartService {
	return &cartService{client: client}
}

// Items returns the contents of a session's cart, ordered by product id for
// stable output
func (s *cartService) Items(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	entries, err := s.client.HGetAll(ctx, cartKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	items := make([]domain.CartItem, 0, len(entries))
	for field, value := range entries {
		productID, err := uuid.Parse(field)
		if err != nil {
			continue
		}
		quantity, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		items = append(items, domain.CartItem{ProductID: productID, Quantity: quantity})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID.String() < items[j].ProductID.String()
	})

	return items, nil
}

// SetQuantity sets the quantity for a product in a session's cart,
// overwriting any previous value
func (s *cartService) SetQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	key := cartKey(sessionID)
	if err := s.client.HSet(ctx, key, productID.String(), quantity).Err(); err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}

	// Refresh the cart's lifetime on every write
	if err := s.client.Expire(ctx, key, CartTTL).Err(); err != nil {
		return fmt.Errorf("failed to refresh cart expiry: %w", err)
	}

	return nil
}

// Remove deletes a product from a session's cart. Removing a product that is
// not in the cart is a no-op.
func (s *cartService) Remove(ctx context.Context, sessionID string, productID uuid.UUID) error {
	if err := s.client.HDel(ctx, cartKey(sessionID), productID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func cartKey(sessionID string) string {
	return cartKeyPrefix + sessionID
}
