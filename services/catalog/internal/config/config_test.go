package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hajadalaj/productmanagement/pkg/errors"
)

// missingDotEnv points Load at a file that does not exist so a stray .env in
// the package directory cannot leak into the tests.
func missingDotEnv(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(missingDotEnv(t))

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, []string{"en-GB", "en-US", "fr-FR", "es-ES", "pt-BR"}, cfg.SupportedLocales)
	assert.Equal(t, "pt-BR", cfg.DefaultLocale)
	assert.Empty(t, cfg.InputPath)
	assert.False(t, cfg.FailFast)
	assert.Empty(t, cfg.MetricsTextfile)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, 1.0, cfg.OTELSampleRate)
}

func TestLoad_FromEnvVars(t *testing.T) {
	t.Setenv("CATALOG_LOCALE", "en-US")
	t.Setenv("CATALOG_SUPPORTED_LOCALES", "en-US,fr-FR")
	t.Setenv("CATALOG_DEFAULT_LOCALE", "en-US")
	t.Setenv("CATALOG_INPUT", "/tmp/script.txt")
	t.Setenv("CATALOG_FAIL_FAST", "true")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load(missingDotEnv(t))

	require.NoError(t, err)
	assert.Equal(t, "en-US", cfg.Locale)
	assert.Equal(t, []string{"en-US", "fr-FR"}, cfg.SupportedLocales)
	assert.Equal(t, "/tmp/script.txt", cfg.InputPath)
	assert.True(t, cfg.FailFast)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CATALOG_INPUT=/tmp/from-dotenv.txt\nCATALOG_LOCALE=fr-FR\n"), 0o600))

	// t.Setenv restores the original values once godotenv has set them.
	t.Setenv("CATALOG_INPUT", "")
	require.NoError(t, os.Unsetenv("CATALOG_INPUT"))
	t.Setenv("CATALOG_LOCALE", "en-US")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.txt", cfg.InputPath)
	assert.Equal(t, "en-US", cfg.Locale, "environment wins over the file")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	cfg, err := Load(missingDotEnv(t))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "2.0")

	cfg, err := Load(missingDotEnv(t))

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_MalformedLocaleTag(t *testing.T) {
	t.Setenv("CATALOG_SUPPORTED_LOCALES", "en-US,not a tag")

	cfg, err := Load(missingDotEnv(t))

	assert.Nil(t, cfg)
	assert.Error(t, err)
}

func TestLoad_DefaultLocaleNotSupported(t *testing.T) {
	t.Setenv("CATALOG_SUPPORTED_LOCALES", "en-US,fr-FR")

	cfg, err := Load(missingDotEnv(t))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CATALOG_DEFAULT_LOCALE")
}

func TestLoad_LocaleTagsCompareCanonically(t *testing.T) {
	t.Setenv("CATALOG_SUPPORTED_LOCALES", "en-us,pt-br")

	cfg, err := Load(missingDotEnv(t))

	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.DefaultLocale)
	assert.Equal(t, []string{"en-us", "pt-br"}, cfg.SupportedLocales)
}
