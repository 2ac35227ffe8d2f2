package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/hajadalaj/productmanagement/services/catalog/internal/domain"
)

// Metrics counts catalog events. It satisfies the catalog service's Recorder.
type Metrics struct {
	productsCreated  *prometheus.CounterVec
	duplicateCreates prometheus.Counter
	reviewsSubmitted *prometheus.CounterVec
	lookupMisses     prometheus.Counter
}

// New creates the catalog counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		productsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_products_created_total",
				Help: "Total number of products added to the catalog",
			},
			[]string{"kind"},
		),
		duplicateCreates: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_duplicate_creates_total",
				Help: "Total number of create requests ignored because the product already existed",
			},
		),
		reviewsSubmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_reviews_submitted_total",
				Help: "Total number of reviews submitted, by review rating",
			},
			[]string{"rating"},
		),
		lookupMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "catalog_lookup_misses_total",
				Help: "Total number of operations that referenced an unknown product",
			},
		),
	}
}

func (m *Metrics) ProductCreated(kind domain.Kind) {
	m.productsCreated.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) DuplicateCreate() {
	m.duplicateCreates.Inc()
}

func (m *Metrics) ReviewSubmitted(rating domain.Rating) {
	m.reviewsSubmitted.WithLabelValues(rating.String()).Inc()
}

func (m *Metrics) LookupMiss() {
	m.lookupMisses.Inc()
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format, for the node exporter textfile collector.
func WriteTextfile(g prometheus.Gatherer, path string) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
