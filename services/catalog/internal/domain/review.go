package domain

import (
	"cmp"
	"slices"
)

// Review is a customer's rating of a product with free-text comments.
type Review struct {
	rating   Rating
	comments string
}

// NewReview creates a review.
func NewReview(rating Rating, comments string) Review {
	return Review{rating: rating, comments: comments}
}

func (r Review) Rating() Rating   { return r.rating }
func (r Review) Comments() string { return r.comments }

// CompareReviews orders reviews by rating rank, lowest first.
func CompareReviews(a, b Review) int {
	return cmp.Compare(a.rating, b.rating)
}

// SortedReviews returns a copy of reviews ordered by CompareReviews.
// Reviews with the same rating keep their relative order.
func SortedReviews(reviews []Review) []Review {
	sorted := slices.Clone(reviews)
	slices.SortStableFunc(sorted, CompareReviews)
	return sorted
}

// AverageRating is the rounded mean rank of reviews, half rounding up.
// An empty slice averages to NotRated.
func AverageRating(reviews []Review) Rating {
	n := len(reviews)
	if n == 0 {
		return NotRated
	}
	sum := 0
	for _, r := range reviews {
		sum += r.rating.Rank()
	}
	// floor(sum/n + 1/2) without leaving integer arithmetic.
	return RatingFromRank((2*sum + n) / (2 * n))
}
