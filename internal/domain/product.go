package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a sellable item listed by a merchant
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description" db:"description"`
	ImgURL      string     `json:"img_url" db:"img_url"`
	Inventory   int        `json:"inventory" db:"inventory"`
	Price       float64    `json:"price" db:"price"`
	Active      bool       `json:"active" db:"active"`
	MerchantID  uuid.UUID  `json:"merchant_id" db:"merchant_id"`
	Categories  []Category `json:"categories,omitempty"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// CategoryIDs returns the ids of the categories the product belongs to
func (p *Product) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
