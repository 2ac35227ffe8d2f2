package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
)

// StatsSource reports the current catalog contents.
type StatsSource interface {
	Stats() domain.Stats
}

// CatalogCollector implements prometheus.Collector for live catalog contents.
type CatalogCollector struct {
	source  StatsSource
	service string

	products         *prometheus.Desc
	reviews          *prometheus.Desc
	productsByRating *prometheus.Desc
}

// NewCatalogCollector creates a collector that reads source on every scrape.
func NewCatalogCollector(source StatsSource, service string) *CatalogCollector {
	labels := []string{"service"}
	return &CatalogCollector{
		source:  source,
		service: service,
		products: prometheus.NewDesc(
			"catalog_products",
			"Number of products in the catalog",
			labels, nil,
		),
		reviews: prometheus.NewDesc(
			"catalog_reviews",
			"Number of reviews across all products",
			labels, nil,
		),
		productsByRating: prometheus.NewDesc(
			"catalog_products_by_rating",
			"Number of products currently holding each rating",
			[]string{"service", "rating"}, nil,
		),
	}
}

// Describe sends the descriptors of all metrics to the provided channel.
func (c *CatalogCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.products
	ch <- c.reviews
	ch <- c.productsByRating
}

// Collect reads the current stats and sends them as gauges. Every rating is
// reported, including those with no products.
func (c *CatalogCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()

	ch <- prometheus.MustNewConstMetric(c.products, prometheus.GaugeValue, float64(stats.Products), c.service)
	ch <- prometheus.MustNewConstMetric(c.reviews, prometheus.GaugeValue, float64(stats.Reviews), c.service)
	for _, r := range domain.Ratings() {
		ch <- prometheus.MustNewConstMetric(c.productsByRating, prometheus.GaugeValue,
			float64(stats.ByRating[r]), c.service, r.String())
	}
}
