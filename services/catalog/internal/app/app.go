package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
	"github.com/hajadalaj/productmanagement/pkg/logger"
	"github.com/hajadalaj/productmanagement/pkg/tracing"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/command"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/config"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/format"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/metrics"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/service"
)

// ServiceName identifies the driver in logs, metrics and traces.
const ServiceName = "catalog"

// Script verbs.
const (
	verbProduct   = "product"
	verbReview    = "review"
	verbReport    = "report"
	verbList      = "list"
	verbDiscounts = "discounts"
)

// App wires together all dependencies and runs catalog scripts.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	formatter *format.ResourceFormatter
	catalog   *service.CatalogService
	registry  *prometheus.Registry
	shutdown  tracing.ShutdownFunc
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	registry, err := format.NewRegistry(format.Config{
		Supported: cfg.SupportedLocales,
		Default:   cfg.DefaultLocale,
	})
	if err != nil {
		return nil, fmt.Errorf("init locale registry: %w", err)
	}
	formatter := registry.Select(cfg.Locale)
	if requested, err := format.Canonical(cfg.Locale); err != nil || formatter.Tag() != requested {
		logger.Warn("locale not supported, using default",
			slog.String("requested", cfg.Locale),
			slog.String("locale", formatter.Tag()),
		)
	}

	shutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	catalog := service.NewCatalogService(formatter, logger,
		service.WithMetrics(metrics.New(promRegistry)),
		service.WithTracer(tracing.Tracer(ServiceName)),
	)
	promRegistry.MustRegister(metrics.NewCatalogCollector(catalog, ServiceName))

	logger.Info("catalog initialized",
		slog.String("locale", formatter.Tag()),
		slog.Any("supported_locales", registry.SupportedLocales()),
		slog.Bool("fail_fast", cfg.FailFast),
	)

	return &App{
		cfg:       cfg,
		logger:    logger,
		formatter: formatter,
		catalog:   catalog,
		registry:  promRegistry,
		shutdown:  shutdown,
	}, nil
}

// Catalog exposes the underlying catalog service.
func (a *App) Catalog() *service.CatalogService {
	return a.catalog
}

// Run executes the script read from in line by line, writing reports and
// listings to out. It stops at the first failing line when FailFast is set,
// otherwise failures are logged and the script continues. It also stops when
// ctx is canceled.
func (a *App) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	lineNo, failures := 0, 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lineCtx := logger.WithCorrelationID(ctx, uuid.NewString())
		log := logger.WithContext(lineCtx, a.logger).With(slog.Int("line", lineNo))

		if err := a.Execute(lineCtx, line, out); err != nil {
			failures++
			if apperrors.IsNotFound(err) {
				log.Warn("command failed", slog.String("command", line), logger.Err(err))
			} else {
				log.Error("command failed", slog.String("command", line), logger.Err(err))
			}
			if a.cfg.FailFast {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	a.logger.Info("script finished",
		slog.Int("lines", lineNo),
		slog.Int("failures", failures),
	)
	return nil
}

// Execute runs one script line. Lookups of unknown products are also
// reported on out with the localized message.
func (a *App) Execute(ctx context.Context, line string, out io.Writer) error {
	verb, args, _ := strings.Cut(line, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(verb) {
	case verbProduct:
		return a.createProduct(ctx, args)
	case verbReview:
		return a.submitReview(ctx, args, out)
	case verbReport:
		return a.printReport(ctx, args, out)
	case verbList:
		return a.printList(ctx, args, out)
	case verbDiscounts:
		return a.printDiscounts(ctx, out)
	default:
		return apperrors.InvalidInputf("unknown command %q", verb)
	}
}

func (a *App) createProduct(ctx context.Context, args string) error {
	rec, err := command.ParseProduct(args)
	if err != nil {
		return err
	}
	switch rec.Kind {
	case domain.KindPerishable:
		_, err = a.catalog.CreatePerishable(ctx, service.CreatePerishableInput{
			ID: rec.ID, Name: rec.Name, Price: rec.Price, Rating: rec.Rating, BestBefore: rec.BestBefore,
		})
	default:
		_, err = a.catalog.CreateBeverage(ctx, service.CreateBeverageInput{
			ID: rec.ID, Name: rec.Name, Price: rec.Price, Rating: rec.Rating, Alcoholic: rec.Alcoholic,
		})
	}
	return err
}

func (a *App) submitReview(ctx context.Context, args string, out io.Writer) error {
	rec, err := command.ParseReview(args)
	if err != nil {
		return err
	}
	_, err = a.catalog.SubmitReview(ctx, rec.ID, rec.Rating, rec.Comments)
	return a.notFound(out, rec.ID, err)
}

func (a *App) printReport(ctx context.Context, args string, out io.Writer) error {
	id, err := strconv.Atoi(args)
	if err != nil {
		return apperrors.InvalidInputf("invalid product id %q", args)
	}
	report, err := a.catalog.GenerateReport(ctx, id)
	if err != nil {
		return a.notFound(out, id, err)
	}
	_, err = io.WriteString(out, report)
	return err
}

// notFound writes the localized not-found line when err is a missing
// product, and returns err unchanged.
func (a *App) notFound(out io.Writer, id int, err error) error {
	if !apperrors.IsNotFound(err) {
		return err
	}
	if _, werr := fmt.Fprintln(out, a.formatter.Text(format.KeyProductNotFound, strconv.Itoa(id))); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func (a *App) printList(ctx context.Context, args string, out io.Writer) error {
	filter, sorter, err := parseListOptions(args)
	if err != nil {
		return err
	}
	for _, line := range a.catalog.ListProducts(ctx, filter, sorter) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) printDiscounts(ctx context.Context, out io.Writer) error {
	discounts := a.catalog.DiscountsByRating(ctx)
	for _, r := range domain.Ratings() {
		amount, ok := discounts[r.Stars()]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(out, a.formatter.Text(format.KeyDiscount, r.Stars(), amount)); err != nil {
			return err
		}
	}
	return nil
}

// parseListOptions reads "[rating|price|name|id] [desc] [discounted|perishable|beverage]".
// Several sort keys chain, the first one taking precedence.
func parseListOptions(args string) (domain.Predicate, domain.Comparator, error) {
	var (
		filters []domain.Predicate
		sorter  domain.Comparator
		reverse bool
	)
	for _, opt := range strings.Fields(strings.ToLower(args)) {
		var next domain.Comparator
		switch opt {
		case "rating":
			next = domain.ByRating
		case "price":
			next = domain.ByPrice
		case "name":
			next = domain.ByName
		case "id":
			next = domain.ByID
		case "desc":
			reverse = true
		case "discounted":
			filters = append(filters, domain.HasDiscount)
		case "perishable":
			filters = append(filters, domain.OfKind(domain.KindPerishable))
		case "beverage":
			filters = append(filters, domain.OfKind(domain.KindBeverage))
		default:
			return nil, nil, apperrors.InvalidInputf("unknown list option %q", opt)
		}
		if next == nil {
			continue
		}
		if sorter == nil {
			sorter = next
		} else {
			sorter = sorter.Then(next)
		}
	}
	if reverse && sorter != nil {
		sorter = sorter.Reversed()
	}

	var filter domain.Predicate
	if len(filters) > 0 {
		filter = func(p domain.Product) bool {
			for _, f := range filters {
				if !f(p) {
					return false
				}
			}
			return true
		}
	}
	return filter, sorter, nil
}

// Shutdown flushes traces and writes the metrics textfile when configured.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down catalog")

	var errs []error
	if a.cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(a.registry, a.cfg.MetricsTextfile); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Info("metrics written", slog.String("path", a.cfg.MetricsTextfile))
		}
	}
	if err := a.shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown tracing: %w", err))
	}
	return errors.Join(errs...)
}
