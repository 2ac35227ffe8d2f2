package format

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(DefaultConfig())
	require.NoError(t, err)
	return r
}

func cake(t *testing.T) domain.Product {
	t.Helper()
	p, err := domain.NewPerishable(102, "Cake", decimal.RequireFromString("2.99"), domain.NotRated,
		time.Date(2019, time.September, 19, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return p
}

func chopp(t *testing.T, alcoholic bool) domain.Product {
	t.Helper()
	p, err := domain.NewBeverage(101, "Chopp", decimal.RequireFromString("3.99"), domain.ThreeStar, alcoholic)
	require.NoError(t, err)
	return p
}

// ============================================================================
// Registry
// ============================================================================

func TestBundledLocales(t *testing.T) {
	assert.Equal(t, []string{"en-GB", "en-US", "es-ES", "fr-FR", "pt-BR"}, BundledLocales())
}

func TestNewRegistry_DefaultConfig(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, BundledLocales(), r.SupportedLocales())
	assert.Equal(t, DefaultLocale, r.Default().Tag())
}

func TestNewRegistry_Errors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		target error
	}{
		{"no locales", Config{Default: "pt-BR"}, apperrors.ErrInvalidInput},
		{"unbundled locale", Config{Supported: []string{"pt-BR", "de-DE"}, Default: "pt-BR"}, apperrors.ErrInvalidInput},
		{"malformed tag", Config{Supported: []string{"pt-BR", "??"}, Default: "pt-BR"}, apperrors.ErrInvalidInput},
		{"default not supported", Config{Supported: []string{"en-US"}, Default: "pt-BR"}, apperrors.ErrInvalidInput},
		{"duplicate tag", Config{Supported: []string{"en-US", "en-us"}, Default: "en-US"}, apperrors.ErrAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.cfg)
			require.Error(t, err)
			assert.Nil(t, r)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestRegistry_Select(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, "en-US", r.Select("en-US").Tag())
	assert.Equal(t, "en-GB", r.Select("en-gb").Tag())
	assert.Equal(t, "fr-FR", r.Select("fr-FR").Tag())

	// Unknown and malformed tags fall back to the default.
	assert.Equal(t, "pt-BR", r.Select("de-DE").Tag())
	assert.Equal(t, "pt-BR", r.Select("not a tag").Tag())
	assert.Equal(t, "pt-BR", r.Select("").Tag())
}

func TestRegistry_SubsetOfLocales(t *testing.T) {
	r, err := NewRegistry(Config{Supported: []string{"en-US", "fr-FR"}, Default: "en-US"})
	require.NoError(t, err)

	assert.Equal(t, []string{"en-US", "fr-FR"}, r.SupportedLocales())
	assert.Equal(t, "en-US", r.Select("pt-BR").Tag())
}

// ============================================================================
// ResourceFormatter
// ============================================================================

func TestFormatProduct_EnUS(t *testing.T) {
	f := newTestRegistry(t).Select("en-US")

	assert.Equal(t, "Cake, price: $2.99, rating: ☆☆☆☆☆, best before: 9/19/19", f.FormatProduct(cake(t)))
	assert.Equal(t, "Chopp, price: $3.99, rating: ★★★☆☆, alcoholic: yes", f.FormatProduct(chopp(t, true)))
	assert.Equal(t, "Chopp, price: $3.99, rating: ★★★☆☆, alcoholic: no", f.FormatProduct(chopp(t, false)))
}

func TestFormatProduct_OtherLocales(t *testing.T) {
	r := newTestRegistry(t)

	gb := r.Select("en-GB").FormatProduct(cake(t))
	assert.Contains(t, gb, "£2.99")
	assert.Contains(t, gb, "19/09/2019")

	fr := r.Select("fr-FR").FormatProduct(chopp(t, true))
	assert.Contains(t, fr, "3,99 €")
	assert.Contains(t, fr, "oui")

	br := r.Select("pt-BR").FormatProduct(cake(t))
	assert.Contains(t, br, "R$ 2,99")
	assert.Contains(t, br, "19/09/2019")
	assert.Contains(t, br, "☆☆☆☆☆")

	es := r.Select("es-ES").FormatProduct(chopp(t, false))
	assert.Contains(t, es, "Chopp")
	assert.Contains(t, es, "€")
}

func TestFormatReview(t *testing.T) {
	r := newTestRegistry(t)
	review := domain.NewReview(domain.FourStar, "So cold")

	assert.Equal(t, "Review: ★★★★☆\tSo cold", r.Select("en-US").FormatReview(review))
	assert.Contains(t, r.Select("pt-BR").FormatReview(review), "★★★★☆\tSo cold")
}

func TestFormatCurrency(t *testing.T) {
	f := newTestRegistry(t).Select("en-US")

	tests := []struct {
		amount string
		want   string
	}{
		{"0", "$0.00"},
		{"0.4", "$0.40"},
		{"1.995", "$2.00"},
		{"2.994", "$2.99"},
		{"19.95", "$19.95"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, f.FormatCurrency(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestText(t *testing.T) {
	r := newTestRegistry(t)

	assert.Equal(t, "Not reviewed", r.Select("en-US").Text(KeyNoReviews))
	assert.Equal(t, "Não avaliado", r.Select("pt-BR").Text(KeyNoReviews))
	assert.Equal(t, "Product with id 999 not found", r.Select("en-US").Text(KeyProductNotFound, "999"))
	assert.Equal(t, "Discount for ★★★☆☆: $0.40", r.Select("en-US").Text(KeyDiscount, "★★★☆☆", "$0.40"))
}

func TestText_EveryBundleHasEveryKey(t *testing.T) {
	bundles, err := loadBundles()
	require.NoError(t, err)

	keys := []string{KeyPerishable, KeyBeverage, KeyReview, KeyNoReviews, KeyProductNotFound, KeyDiscount, KeyYes, KeyNo}
	for tag, b := range bundles {
		assert.NotEmpty(t, b.Date, tag)
		assert.Contains(t, b.Currency, "%s", tag)
		for _, key := range keys {
			assert.NotEmpty(t, b.Messages[key], "%s missing %s", tag, key)
		}
	}
}

func TestFormatCurrency_LargeAmountsStayExact(t *testing.T) {
	r := newTestRegistry(t)
	amount := decimal.RequireFromString("12345678901234567.89")

	assert.Equal(t, "$12,345,678,901,234,567.89", r.Select("en-US").FormatCurrency(amount))
	assert.Equal(t, "R$ 12.345.678.901.234.567,89", r.Select("pt-BR").FormatCurrency(amount))

	// Past int64 the digits stay exact, only grouping is lost.
	huge := decimal.RequireFromString("123456789012345678901.555")
	assert.Equal(t, "$123456789012345678901.56", r.Select("en-US").FormatCurrency(huge))
}

func TestFormatCurrency_LocaleDecimalSeparator(t *testing.T) {
	r := newTestRegistry(t)
	amount := decimal.RequireFromString("0.005")

	assert.Equal(t, "$0.01", r.Select("en-US").FormatCurrency(amount))
	assert.Equal(t, "R$ 0,01", r.Select("pt-BR").FormatCurrency(amount))
	assert.Equal(t, "0,01 €", r.Select("fr-FR").FormatCurrency(amount))
	assert.Equal(t, "£0.01", r.Select("en-GB").FormatCurrency(amount))
}

func TestCanonical(t *testing.T) {
	tag, err := Canonical("en-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", tag)

	_, err = Canonical("not a tag")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}
