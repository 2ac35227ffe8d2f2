package config

import (
	"fmt"
	"slices"

	pkgconfig "github.com/hajadalaj/productmanagement/pkg/config"
	"github.com/hajadalaj/productmanagement/pkg/validator"
	"github.com/hajadalaj/productmanagement/services/catalog/internal/format"
)

// Config holds all configuration for the catalog driver.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=json text"`

	// Localization
	Locale           string   `env:"CATALOG_LOCALE" envDefault:"pt-BR" validate:"required"`
	SupportedLocales []string `env:"CATALOG_SUPPORTED_LOCALES" envDefault:"en-GB,en-US,fr-FR,es-ES,pt-BR" envSeparator:"," validate:"min=1,dive,bcp47_language_tag"`
	DefaultLocale    string   `env:"CATALOG_DEFAULT_LOCALE" envDefault:"pt-BR" validate:"bcp47_language_tag"`

	// Script input; stdin when empty.
	InputPath string `env:"CATALOG_INPUT"`
	FailFast  bool   `env:"CATALOG_FAIL_FAST" envDefault:"false"`

	// Prometheus textfile written on exit; disabled when empty.
	MetricsTextfile string `env:"METRICS_TEXTFILE"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0" validate:"gte=0,lte=1"`
}

// Load reads an optional .env file and then configuration from environment
// variables. Variables already set in the environment win over the file.
func Load(dotenv ...string) (*Config, error) {
	if err := pkgconfig.LoadDotEnv(dotenv...); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}

	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if err := validator.ValidateInput(cfg); err != nil {
		return nil, fmt.Errorf("load catalog config: %w", err)
	}
	if !supportsLocale(cfg.SupportedLocales, cfg.DefaultLocale) {
		return nil, fmt.Errorf("CATALOG_DEFAULT_LOCALE %q must be one of CATALOG_SUPPORTED_LOCALES", cfg.DefaultLocale)
	}
	return cfg, nil
}

// supportsLocale compares canonical tags, so "pt-br" matches "pt-BR".
func supportsLocale(supported []string, tag string) bool {
	want, err := format.Canonical(tag)
	if err != nil {
		return false
	}
	return slices.ContainsFunc(supported, func(s string) bool {
		got, err := format.Canonical(s)
		return err == nil && got == want
	})
}
