package format

import (
	_ "embed"
	"fmt"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
)

// DefaultLocale is selected when a requested tag is unknown.
const DefaultLocale = "pt-BR"

//go:embed locales.yaml
var localesYAML []byte

// bundle is one locale's entry in locales.yaml.
type bundle struct {
	Date     string            `yaml:"date"`
	Currency string            `yaml:"currency"`
	Messages map[string]string `yaml:"messages"`
}

// Config selects the locales a Registry serves.
type Config struct {
	Supported []string
	Default   string
}

// DefaultConfig serves every bundled locale with pt-BR as fallback.
func DefaultConfig() Config {
	return Config{
		Supported: BundledLocales(),
		Default:   DefaultLocale,
	}
}

// Registry maps canonical locale tags to formatters. It is built once and
// read-only afterwards.
type Registry struct {
	formatters map[string]*ResourceFormatter
	fallback   *ResourceFormatter
}

// BundledLocales lists the tags available in the embedded bundles, sorted.
func BundledLocales() []string {
	bundles, err := loadBundles()
	if err != nil {
		return nil
	}
	tags := make([]string, 0, len(bundles))
	for tag := range bundles {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// NewRegistry builds a formatter for every supported locale. It fails when a
// supported tag has no bundle or when the default is not one of them.
func NewRegistry(cfg Config) (*Registry, error) {
	bundles, err := loadBundles()
	if err != nil {
		return nil, err
	}
	if len(cfg.Supported) == 0 {
		return nil, apperrors.InvalidInput("at least one supported locale is required")
	}

	defaultTag, err := Canonical(cfg.Default)
	if err != nil {
		return nil, err
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.MustParse(defaultTag)))
	selected := make(map[string]bundle, len(cfg.Supported))

	for _, raw := range cfg.Supported {
		tag, err := Canonical(raw)
		if err != nil {
			return nil, err
		}
		if _, dup := selected[tag]; dup {
			return nil, apperrors.AlreadyExists("locale", "tag", tag)
		}
		b, ok := bundles[tag]
		if !ok {
			return nil, apperrors.InvalidInputf("no resource bundle for locale %q", tag)
		}
		for key, msg := range b.Messages {
			if err := builder.SetString(language.MustParse(tag), key, msg); err != nil {
				return nil, apperrors.Internal(fmt.Errorf("register message %s/%s: %w", tag, key, err))
			}
		}
		selected[tag] = b
	}

	// Printers are created once every message is registered.
	r := &Registry{formatters: make(map[string]*ResourceFormatter, len(selected))}
	for tag, b := range selected {
		lang := language.MustParse(tag)
		printer := message.NewPrinter(lang, message.Catalog(builder))
		r.formatters[tag] = &ResourceFormatter{
			tag:        lang,
			printer:    printer,
			dateLayout: b.Date,
			currency:   b.Currency,
			decimalSep: decimalSeparator(printer),
		}
	}

	fallback, ok := r.formatters[defaultTag]
	if !ok {
		return nil, apperrors.InvalidInputf("default locale %q is not supported", defaultTag)
	}
	r.fallback = fallback
	return r, nil
}

// Select returns the formatter for tag, or the default one when tag is
// unknown or malformed.
func (r *Registry) Select(tag string) *ResourceFormatter {
	if c, err := Canonical(tag); err == nil {
		if f, ok := r.formatters[c]; ok {
			return f
		}
	}
	return r.fallback
}

// Default returns the fallback formatter.
func (r *Registry) Default() *ResourceFormatter {
	return r.fallback
}

// SupportedLocales returns the served tags, sorted.
func (r *Registry) SupportedLocales() []string {
	tags := make([]string, 0, len(r.formatters))
	for tag := range r.formatters {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

func loadBundles() (map[string]bundle, error) {
	var bundles map[string]bundle
	if err := yaml.Unmarshal(localesYAML, &bundles); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("parse locale bundles: %w", err))
	}
	return bundles, nil
}

// Canonical normalizes a BCP 47 tag, so "en-us" becomes "en-US".
func Canonical(tag string) (string, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return "", apperrors.InvalidInputf("invalid locale tag %q", tag)
	}
	return t.String(), nil
}
