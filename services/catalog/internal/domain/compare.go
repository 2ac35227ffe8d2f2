package domain

import (
	"cmp"
	"strings"
)

// Comparator orders products for listings. It returns a negative number when a
// sorts before b, zero when they tie, and a positive number otherwise.
type Comparator func(a, b Product) int

// Predicate selects products for listings.
type Predicate func(p Product) bool

// ByRating orders by rating rank, highest first.
func ByRating(a, b Product) int {
	return cmp.Compare(b.rating, a.rating)
}

// ByPrice orders by price, most expensive first.
func ByPrice(a, b Product) int {
	return b.price.Cmp(a.price)
}

// ByID orders by id, lowest first.
func ByID(a, b Product) int {
	return cmp.Compare(a.id, b.id)
}

// ByName orders by name, case-insensitively.
func ByName(a, b Product) int {
	return strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name))
}

// Then breaks ties in c using next.
func (c Comparator) Then(next Comparator) Comparator {
	return func(a, b Product) int {
		if r := c(a, b); r != 0 {
			return r
		}
		return next(a, b)
	}
}

// Reversed inverts the order of c.
func (c Comparator) Reversed() Comparator {
	return func(a, b Product) int {
		return c(b, a)
	}
}

// All accepts every product.
func All(Product) bool { return true }

// HasDiscount accepts products whose rounded discount is not zero.
func HasDiscount(p Product) bool {
	return !p.Discount().IsZero()
}

// OfKind accepts products of the given variant.
func OfKind(k Kind) Predicate {
	return func(p Product) bool {
		return p.kind == k
	}
}
