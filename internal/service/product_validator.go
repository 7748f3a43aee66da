package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ProductForm is the untyped creation payload as posted by a storefront form.
// Numeric fields arrive as strings and are parsed during validation, so a
// value like "$2" or "forty" is a validation failure rather than a decode
// error further out.
type ProductForm struct {
	Name        string
	Description string
	ImgURL      string
	Inventory   string
	Price       string
	CategoryIDs []string
}

// FieldError describes a single invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewProduct is the typed result of a successfully validated creation payload
type NewProduct struct {
	Name        string
	Description string
	ImgURL      string
	Inventory   int
	Price       float64
	CategoryIDs []uuid.UUID
}

// ValidateProductForm checks a creation payload and returns either the typed
// creation command or the list of field-level failures. It is a pure function:
// no persistence, no transport concerns.
//
// Category ids are optional; ids that do not parse are dropped silently, and
// duplicates collapse to one entry. Whether a surviving id resolves to an
// existing category is decided at association time.
func ValidateProductForm(form ProductForm) (NewProduct, []FieldError) {
	var errs []FieldError

	name := strings.TrimSpace(form.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	}

	description := strings.TrimSpace(form.Description)
	if description == "" {
		errs = append(errs, FieldError{Field: "description", Message: "is required"})
	}

	imgURL := strings.TrimSpace(form.ImgURL)
	if imgURL == "" {
		errs = append(errs, FieldError{Field: "img_url", Message: "is required"})
	}

	inventory, err := strconv.Atoi(strings.TrimSpace(form.Inventory))
	if err != nil || inventory < 0 {
		errs = append(errs, FieldError{Field: "inventory", Message: "must be a non-negative integer"})
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		errs = append(errs, FieldError{Field: "price", Message: "must be a non-negative number"})
	}

	if len(errs) > 0 {
		return NewProduct{}, errs
	}

	return NewProduct{
		Name:        name,
		Description: description,
		ImgURL:      imgURL,
		Inventory:   inventory,
		Price:       price,
		CategoryIDs: parseCategoryIDs(form.CategoryIDs),
	}, nil
}

func parseCategoryIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))

	for _, value := range raw {
		id, err := uuid.Parse(strings.TrimSpace(value))
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}

	return ids
}
