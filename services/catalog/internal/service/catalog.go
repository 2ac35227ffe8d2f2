package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
	"github.com/hajadalaj/productmanagement/pkg/logger"
	"github.com/hajadalaj/productmanagement/pkg/tracing"
	"github.com/hajadalaj/productmanagement/pkg/validator"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/format"
)

// Formatter renders catalog values for one locale.
type Formatter interface {
	FormatProduct(p domain.Product) string
	FormatReview(r domain.Review) string
	FormatCurrency(amount decimal.Decimal) string
	Text(key string, args ...any) string
}

// Recorder receives catalog events for instrumentation.
type Recorder interface {
	ProductCreated(kind domain.Kind)
	DuplicateCreate()
	ReviewSubmitted(rating domain.Rating)
	LookupMiss()
}

type noopRecorder struct{}

func (noopRecorder) ProductCreated(domain.Kind)    {}
func (noopRecorder) DuplicateCreate()              {}
func (noopRecorder) ReviewSubmitted(domain.Rating) {}
func (noopRecorder) LookupMiss()                   {}

// CreatePerishableInput holds the parameters for creating a perishable product.
type CreatePerishableInput struct {
	ID         int
	Name       string          `validate:"required"`
	Price      decimal.Decimal `validate:"gte=0"`
	Rating     domain.Rating   `validate:"gte=0,lte=5"`
	BestBefore time.Time       `validate:"required"`
}

// CreateBeverageInput holds the parameters for creating a beverage.
type CreateBeverageInput struct {
	ID        int
	Name      string          `validate:"required"`
	Price     decimal.Decimal `validate:"gte=0"`
	Rating    domain.Rating   `validate:"gte=0,lte=5"`
	Alcoholic bool
}

// entry is a catalog slot: the current product value and its reviews in
// submission order.
type entry struct {
	product domain.Product
	reviews []domain.Review
}

// Option configures a CatalogService.
type Option func(*CatalogService)

// WithTracer sets the tracer used for operation spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *CatalogService) { s.tracer = t }
}

// WithMetrics sets the event recorder.
func WithMetrics(r Recorder) Option {
	return func(s *CatalogService) { s.metrics = r }
}

// CatalogService maps product identity to review history and keeps each
// product's rating in line with the mean of its reviews.
// Safe for concurrent use; a single mutex guards all state.
type CatalogService struct {
	mu      sync.Mutex
	entries map[domain.Key]*entry
	keys    []domain.Key // creation order

	formatter Formatter
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   Recorder
}

// NewCatalogService creates an empty catalog that renders through formatter.
func NewCatalogService(formatter Formatter, logger *slog.Logger, opts ...Option) *CatalogService {
	s := &CatalogService{
		entries:   make(map[domain.Key]*entry),
		formatter: formatter,
		logger:    logger,
		tracer:    tracing.Tracer("catalog"),
		metrics:   noopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePerishable validates input and adds the product with no reviews.
// If an equal product already exists the stored entry is kept and the newly
// constructed value is returned.
func (s *CatalogService) CreatePerishable(ctx context.Context, input CreatePerishableInput) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "catalog.CreatePerishable", attribute.Int("product.id", input.ID))
	defer func() { tracing.End(span, err) }()

	if err := validator.ValidateInput(input); err != nil {
		return domain.Product{}, err
	}
	p, err := domain.NewPerishable(input.ID, input.Name, input.Price, input.Rating, input.BestBefore)
	if err != nil {
		return domain.Product{}, err
	}
	s.insert(ctx, p)
	return p, nil
}

// CreateBeverage validates input and adds the beverage with no reviews.
// Duplicates behave as in CreatePerishable.
func (s *CatalogService) CreateBeverage(ctx context.Context, input CreateBeverageInput) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "catalog.CreateBeverage", attribute.Int("product.id", input.ID))
	defer func() { tracing.End(span, err) }()

	if err := validator.ValidateInput(input); err != nil {
		return domain.Product{}, err
	}
	p, err := domain.NewBeverage(input.ID, input.Name, input.Price, input.Rating, input.Alcoholic)
	if err != nil {
		return domain.Product{}, err
	}
	s.insert(ctx, p)
	return p, nil
}

func (s *CatalogService) insert(ctx context.Context, p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.Key()
	if _, exists := s.entries[key]; exists {
		s.metrics.DuplicateCreate()
		s.log(ctx).DebugContext(ctx, "duplicate product key ignored",
			slog.Int("product_id", key.ID),
			slog.String("name", key.Name),
		)
		return
	}

	s.entries[key] = &entry{product: p, reviews: []domain.Review{}}
	s.keys = append(s.keys, key)
	s.metrics.ProductCreated(p.Kind())

	s.log(ctx).InfoContext(ctx, "product created",
		slog.Int("product_id", key.ID),
		slog.String("name", key.Name),
		slog.String("kind", p.Kind().String()),
	)
}

// SubmitReview reviews the first product created with id.
func (s *CatalogService) SubmitReview(ctx context.Context, id int, rating domain.Rating, comments string) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "catalog.SubmitReview",
		attribute.Int("product.id", id), attribute.String("rating", rating.String()))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.findLocked(id)
	if !ok {
		s.metrics.LookupMiss()
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return s.reviewLocked(ctx, e.product.Key(), rating, comments), nil
}

// ReviewProduct appends a review to product, recomputes its rating from all
// of its reviews and stores the re-rated value. It returns the new value.
func (s *CatalogService) ReviewProduct(ctx context.Context, product domain.Product, rating domain.Rating, comments string) (_ domain.Product, err error) {
	ctx, span := tracing.Start(ctx, s.tracer, "catalog.ReviewProduct",
		attribute.Int("product.id", product.ID()), attribute.String("rating", rating.String()))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[product.Key()]; !ok {
		s.metrics.LookupMiss()
		return domain.Product{}, apperrors.NotFound("product", product.ID())
	}
	return s.reviewLocked(ctx, product.Key(), rating, comments), nil
}

// reviewLocked requires s.mu and an existing key.
func (s *CatalogService) reviewLocked(ctx context.Context, key domain.Key, rating domain.Rating, comments string) domain.Product {
	old := s.entries[key]
	reviews := append(old.reviews, domain.NewReview(domain.RatingFromRank(rating.Rank()), comments))
	updated := old.product.WithRating(domain.AverageRating(reviews))

	// Re-key: the stored product value changes, so the slot is replaced.
	delete(s.entries, key)
	s.entries[updated.Key()] = &entry{product: updated, reviews: reviews}
	s.metrics.ReviewSubmitted(rating)

	s.log(ctx).InfoContext(ctx, "review submitted",
		slog.Int("product_id", key.ID),
		slog.String("rating", rating.String()),
		slog.Int("review_count", len(reviews)),
		slog.String("product_rating", updated.Rating().String()),
	)
	return updated
}

// FindProduct returns the first product, in creation order, with id.
func (s *CatalogService) FindProduct(ctx context.Context, id int) (_ domain.Product, err error) {
	_, span := tracing.Start(ctx, s.tracer, "catalog.FindProduct", attribute.Int("product.id", id))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.findLocked(id)
	if !ok {
		s.metrics.LookupMiss()
		return domain.Product{}, apperrors.NotFound("product", id)
	}
	return e.product, nil
}

func (s *CatalogService) findLocked(id int) (*entry, bool) {
	for _, key := range s.keys {
		if key.ID == id {
			return s.entries[key], true
		}
	}
	return nil, false
}

// Reviews returns the reviews of the first product with id, in submission order.
func (s *CatalogService) Reviews(ctx context.Context, id int) (_ []domain.Review, err error) {
	_, span := tracing.Start(ctx, s.tracer, "catalog.Reviews", attribute.Int("product.id", id))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.findLocked(id)
	if !ok {
		s.metrics.LookupMiss()
		return nil, apperrors.NotFound("product", id)
	}
	return slices.Clone(e.reviews), nil
}

// GenerateReport renders the report of the first product with id.
func (s *CatalogService) GenerateReport(ctx context.Context, id int) (_ string, err error) {
	_, span := tracing.Start(ctx, s.tracer, "catalog.GenerateReport", attribute.Int("product.id", id))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	e, ok := s.findLocked(id)
	var snapshot entry
	if ok {
		snapshot = s.snapshot(e)
	}
	s.mu.Unlock()

	if !ok {
		s.metrics.LookupMiss()
		return "", apperrors.NotFound("product", id)
	}
	return s.render(snapshot), nil
}

// ProductReport renders the report of product: the product line followed by
// its reviews from lowest to highest rating, or the not-reviewed line.
func (s *CatalogService) ProductReport(ctx context.Context, product domain.Product) (_ string, err error) {
	_, span := tracing.Start(ctx, s.tracer, "catalog.ProductReport", attribute.Int("product.id", product.ID()))
	defer func() { tracing.End(span, err) }()

	s.mu.Lock()
	e, ok := s.entries[product.Key()]
	var snapshot entry
	if ok {
		snapshot = s.snapshot(e)
	}
	s.mu.Unlock()

	if !ok {
		s.metrics.LookupMiss()
		return "", apperrors.NotFound("product", product.ID())
	}
	return s.render(snapshot), nil
}

func (s *CatalogService) snapshot(e *entry) entry {
	return entry{product: e.product, reviews: slices.Clone(e.reviews)}
}

func (s *CatalogService) render(e entry) string {
	var b []byte
	b = append(b, s.formatter.FormatProduct(e.product)...)
	b = append(b, '\n')

	if len(e.reviews) == 0 {
		b = append(b, s.formatter.Text(format.KeyNoReviews)...)
		b = append(b, '\n')
		return string(b)
	}
	for _, r := range domain.SortedReviews(e.reviews) {
		b = append(b, s.formatter.FormatReview(r)...)
		b = append(b, '\n')
	}
	return string(b)
}

// ListProducts renders every product accepted by filter, ordered by sorter.
// A nil filter accepts everything; a nil sorter keeps creation order.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.Predicate, sorter domain.Comparator) []string {
	_, span := tracing.Start(ctx, s.tracer, "catalog.ListProducts")
	defer span.End()

	products := s.products()
	if sorter != nil {
		slices.SortStableFunc(products, sorter)
	}
	if filter != nil {
		products = lo.Filter(products, func(p domain.Product, _ int) bool { return filter(p) })
	}
	span.SetAttributes(attribute.Int("product.count", len(products)))

	return lo.Map(products, func(p domain.Product, _ int) string {
		return s.formatter.FormatProduct(p)
	})
}

// DiscountsByRating sums the unrounded discounts of the products sharing a
// rating and formats each total, keyed by the rating's star glyph.
func (s *CatalogService) DiscountsByRating(ctx context.Context) map[string]string {
	_, span := tracing.Start(ctx, s.tracer, "catalog.DiscountsByRating")
	defer span.End()

	groups := lo.GroupBy(s.products(), func(p domain.Product) string {
		return p.Rating().Stars()
	})
	return lo.MapValues(groups, func(products []domain.Product, _ string) string {
		total := lo.Reduce(products, func(sum decimal.Decimal, p domain.Product, _ int) decimal.Decimal {
			return sum.Add(p.RawDiscount())
		}, decimal.Zero)
		return s.formatter.FormatCurrency(total)
	})
}

// Stats summarizes the catalog contents.
func (s *CatalogService) Stats() domain.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := domain.Stats{
		Products: len(s.keys),
		ByRating: make(map[domain.Rating]int, len(domain.Ratings())),
	}
	for _, key := range s.keys {
		e := s.entries[key]
		stats.Reviews += len(e.reviews)
		stats.ByRating[e.product.Rating()]++
	}
	return stats
}

// products returns the current product values in creation order.
func (s *CatalogService) products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Product, 0, len(s.keys))
	for _, key := range s.keys {
		out = append(out, s.entries[key].product)
	}
	return out
}

func (s *CatalogService) log(ctx context.Context) *slog.Logger {
	return logger.WithContext(ctx, s.logger)
}
