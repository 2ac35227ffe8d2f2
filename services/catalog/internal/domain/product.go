package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
)

// Kind discriminates the product variants.
type Kind int

const (
	KindPerishable Kind = iota + 1
	KindBeverage
)

func (k Kind) String() string {
	switch k {
	case KindPerishable:
		return "perishable"
	case KindBeverage:
		return "beverage"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// DiscountRate is the fraction of the price offered as discount.
var DiscountRate = decimal.RequireFromString("0.10")

// Key identifies a product in the catalog. Two products with the same key are
// the same product whatever their price or rating.
type Key struct {
	ID   int
	Name string
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.ID, k.Name)
}

// Product is an immutable catalog item. Variant fields are only meaningful for
// the matching Kind: BestBefore for perishables, Alcoholic for beverages.
type Product struct {
	id         int
	name       string
	price      decimal.Decimal
	rating     Rating
	kind       Kind
	bestBefore time.Time
	alcoholic  bool
}

// NewPerishable creates a perishable product.
func NewPerishable(id int, name string, price decimal.Decimal, rating Rating, bestBefore time.Time) (Product, error) {
	if err := checkCommon(name, price); err != nil {
		return Product{}, err
	}
	return Product{
		id:         id,
		name:       name,
		price:      price,
		rating:     RatingFromRank(rating.Rank()),
		kind:       KindPerishable,
		bestBefore: bestBefore,
	}, nil
}

// NewBeverage creates a beverage product.
func NewBeverage(id int, name string, price decimal.Decimal, rating Rating, alcoholic bool) (Product, error) {
	if err := checkCommon(name, price); err != nil {
		return Product{}, err
	}
	return Product{
		id:        id,
		name:      name,
		price:     price,
		rating:    RatingFromRank(rating.Rank()),
		kind:      KindBeverage,
		alcoholic: alcoholic,
	}, nil
}

func checkCommon(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.InvalidInput("product name cannot be empty")
	}
	if price.IsNegative() {
		return apperrors.InvalidInputf("product price must not be negative, got %s", price)
	}
	return nil
}

// Getters
func (p Product) ID() int                { return p.id }
func (p Product) Name() string           { return p.name }
func (p Product) Price() decimal.Decimal { return p.price }
func (p Product) Rating() Rating         { return p.rating }
func (p Product) Kind() Kind             { return p.kind }
func (p Product) BestBefore() time.Time  { return p.bestBefore }
func (p Product) Alcoholic() bool        { return p.alcoholic }

// Key returns the identity of the product.
func (p Product) Key() Key {
	return Key{ID: p.id, Name: p.name}
}

// Equal reports whether p and other are the same product: same id and name.
func (p Product) Equal(other Product) bool {
	return p.Key() == other.Key()
}

// Discount is 10% of the price rounded half-up to cents.
func (p Product) Discount() decimal.Decimal {
	return p.RawDiscount().Round(2)
}

// RawDiscount is the unrounded discount, used when summing many products.
func (p Product) RawDiscount() decimal.Decimal {
	return p.price.Mul(DiscountRate)
}

// WithRating returns a copy of p carrying the new rating.
func (p Product) WithRating(r Rating) Product {
	p.rating = RatingFromRank(r.Rank())
	return p
}

func (p Product) String() string {
	switch p.kind {
	case KindPerishable:
		return fmt.Sprintf("%d, %s, %s, %s, %s, %s", p.id, p.name, p.price.StringFixed(2),
			p.Discount().StringFixed(2), p.rating.Stars(), p.bestBefore.Format(time.DateOnly))
	case KindBeverage:
		return fmt.Sprintf("%d, %s, %s, %s, %s, alcoholic=%t", p.id, p.name, p.price.StringFixed(2),
			p.Discount().StringFixed(2), p.rating.Stars(), p.alcoholic)
	default:
		return fmt.Sprintf("%d, %s", p.id, p.name)
	}
}
