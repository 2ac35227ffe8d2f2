package domain

import (
	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
)

// Rating is a discrete star rating. Its numeric value is the rank.
type Rating int

// Rating levels, ordered by rank.
const (
	NotRated Rating = iota
	OneStar
	TwoStar
	ThreeStar
	FourStar
	FiveStar
)

// HighestRank is the rank of the best rating.
const HighestRank = int(FiveStar)

var ratingNames = [...]string{"NOT_RATED", "ONE_STAR", "TWO_STAR", "THREE_STAR", "FOUR_STAR", "FIVE_STAR"}

var ratingStars = [...]string{
	"☆☆☆☆☆",
	"★☆☆☆☆",
	"★★☆☆☆",
	"★★★☆☆",
	"★★★★☆",
	"★★★★★",
}

// Ratings returns every level in ascending rank order.
func Ratings() []Rating {
	return []Rating{NotRated, OneStar, TwoStar, ThreeStar, FourStar, FiveStar}
}

// RatingFromRank maps any integer onto a rating, clamping into [0, HighestRank].
func RatingFromRank(rank int) Rating {
	switch {
	case rank < 0:
		return NotRated
	case rank > HighestRank:
		return FiveStar
	default:
		return Rating(rank)
	}
}

// ParseRank is the strict form of RatingFromRank used on external input.
func ParseRank(rank int) (Rating, error) {
	if rank < 0 || rank > HighestRank {
		return NotRated, apperrors.InvalidInputf("rating rank %d out of range 0..%d", rank, HighestRank)
	}
	return Rating(rank), nil
}

// Rank returns the numeric rank used for averaging.
func (r Rating) Rank() int {
	return int(r)
}

// Stars returns the display glyph, e.g. "★★★☆☆".
func (r Rating) Stars() string {
	return ratingStars[RatingFromRank(int(r))]
}

func (r Rating) String() string {
	return ratingNames[RatingFromRank(int(r))]
}
