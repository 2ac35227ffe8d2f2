package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
)

// Message keys present in every bundle.
const (
	KeyPerishable      = "perishable"
	KeyBeverage        = "beverage"
	KeyReview          = "review"
	KeyNoReviews       = "no.reviews"
	KeyProductNotFound = "product.not.found"
	KeyDiscount        = "discount"
	KeyYes             = "yes"
	KeyNo              = "no"
)

// ResourceFormatter renders catalog values for one locale. It is immutable
// once built by a Registry.
type ResourceFormatter struct {
	tag        language.Tag
	printer    *message.Printer
	dateLayout string
	currency   string
	decimalSep string
}

// Tag returns the canonical BCP 47 tag of the formatter.
func (f *ResourceFormatter) Tag() string {
	return f.tag.String()
}

// FormatProduct renders the product line of a report.
func (f *ResourceFormatter) FormatProduct(p domain.Product) string {
	price := f.FormatCurrency(p.Price())
	stars := p.Rating().Stars()

	switch p.Kind() {
	case domain.KindPerishable:
		return f.printer.Sprintf(KeyPerishable, p.Name(), price, stars, p.BestBefore().Format(f.dateLayout))
	case domain.KindBeverage:
		alcoholic := f.Text(KeyNo)
		if p.Alcoholic() {
			alcoholic = f.Text(KeyYes)
		}
		return f.printer.Sprintf(KeyBeverage, p.Name(), price, stars, alcoholic)
	default:
		return p.Name()
	}
}

// FormatReview renders one review line.
func (f *ResourceFormatter) FormatReview(r domain.Review) string {
	return f.printer.Sprintf(KeyReview, r.Rating().Stars(), r.Comments())
}

// FormatCurrency renders amount with two fraction digits, the locale's
// separators and currency placement. The integer part is grouped by the locale
// printer and the cents come from the exact decimal. Amounts beyond int64 are
// printed without grouping.
func (f *ResourceFormatter) FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}

	whole, cents, _ := strings.Cut(rounded.StringFixed(2), ".")
	if intPart := rounded.Truncate(0); intPart.BigInt().IsInt64() {
		whole = f.printer.Sprintf("%v", number.Decimal(intPart.IntPart()))
	}
	return fmt.Sprintf(f.currency, sign+whole+f.decimalSep+cents)
}

// Text returns the localized message for key, formatted with args. Unknown
// keys render as the key itself.
func (f *ResourceFormatter) Text(key string, args ...any) string {
	return f.printer.Sprintf(key, args...)
}

// decimalSeparator reads the locale's decimal mark off a formatted 1.5.
func decimalSeparator(p *message.Printer) string {
	s := p.Sprintf("%v", number.Decimal(1.5, number.Scale(1)))
	if sep := strings.TrimSuffix(strings.TrimPrefix(s, "1"), "5"); sep != "" {
		return sep
	}
	return "."
}
