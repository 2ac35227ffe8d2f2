// Package command parses the comma-separated product and review records
// accepted by the shop driver:
//
//	D,101,Chopp,3.99,0,true         beverage: kind,id,name,price,rank,alcoholic
//	F,102,Cake,2.99,0,2019-09-19    perishable: kind,id,name,price,rank,best-before
//	101,5,The best chopp            review: id,rank,comments
package command

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
)

// Kind letters in product records.
const (
	KindLetterPerishable = "F"
	KindLetterBeverage   = "D"
)

const productFields = 6

// ProductRecord is a parsed product line. BestBefore is set for perishables,
// Alcoholic for beverages.
type ProductRecord struct {
	Kind       domain.Kind
	ID         int
	Name       string
	Price      decimal.Decimal
	Rating     domain.Rating
	BestBefore time.Time
	Alcoholic  bool
}

// ReviewRecord is a parsed review line.
type ReviewRecord struct {
	ID       int
	Rating   domain.Rating
	Comments string
}

// ParseProduct parses "<kind>,<id>,<name>,<price>,<rank>,<variant>".
func ParseProduct(line string) (ProductRecord, error) {
	fields := splitTrim(line, -1)
	if len(fields) != productFields {
		return ProductRecord{}, apperrors.InvalidInputf("product record %q: want %d fields, got %d", line, productFields, len(fields))
	}

	var (
		rec ProductRecord
		err error
	)
	if rec.ID, err = parseID(fields[1]); err != nil {
		return ProductRecord{}, err
	}
	rec.Name = fields[2]
	if rec.Name == "" {
		return ProductRecord{}, apperrors.InvalidInputf("product record %q: empty name", line)
	}
	if rec.Price, err = decimal.NewFromString(fields[3]); err != nil {
		return ProductRecord{}, apperrors.InvalidInputf("product record %q: invalid price %q", line, fields[3])
	}
	if rec.Rating, err = parseRank(fields[4]); err != nil {
		return ProductRecord{}, err
	}

	switch strings.ToUpper(fields[0]) {
	case KindLetterPerishable:
		rec.Kind = domain.KindPerishable
		if rec.BestBefore, err = time.Parse(time.DateOnly, fields[5]); err != nil {
			return ProductRecord{}, apperrors.InvalidInputf("product record %q: invalid best-before date %q", line, fields[5])
		}
	case KindLetterBeverage:
		rec.Kind = domain.KindBeverage
		if rec.Alcoholic, err = strconv.ParseBool(fields[5]); err != nil {
			return ProductRecord{}, apperrors.InvalidInputf("product record %q: invalid alcoholic flag %q", line, fields[5])
		}
	default:
		return ProductRecord{}, apperrors.InvalidInputf("product record %q: unknown kind %q", line, fields[0])
	}
	return rec, nil
}

// ParseReview parses "<id>,<rank>,<comments>". Comments run to the end of
// the line and may contain commas.
func ParseReview(line string) (ReviewRecord, error) {
	fields := splitTrim(line, 3)
	if len(fields) < 2 {
		return ReviewRecord{}, apperrors.InvalidInputf("review record %q: want id,rank,comments", line)
	}

	var (
		rec ReviewRecord
		err error
	)
	if rec.ID, err = parseID(fields[0]); err != nil {
		return ReviewRecord{}, err
	}
	if rec.Rating, err = parseRank(fields[1]); err != nil {
		return ReviewRecord{}, err
	}
	if len(fields) == 3 {
		rec.Comments = fields[2]
	}
	return rec, nil
}

func splitTrim(line string, n int) []string {
	fields := strings.SplitN(strings.TrimSpace(line), ",", n)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInputf("invalid product id %q", s)
	}
	return id, nil
}

func parseRank(s string) (domain.Rating, error) {
	rank, err := strconv.Atoi(s)
	if err != nil {
		return domain.NotRated, apperrors.InvalidInputf("invalid rating rank %q", s)
	}
	return domain.ParseRank(rank)
}
