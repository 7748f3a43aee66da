package domain

import "github.com/google/uuid"

// CartItem is one line of a session cart: a product and its quantity.
// Carts are keyed by a session identifier and carried explicitly through
// the request boundary; there is no ambient cart state.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
