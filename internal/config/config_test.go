package config

import (
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// psEnvKeys — все переменные окружения PS_*, которые читает Load.
var psEnvKeys = []string{
	"PS_PORT", "PS_LOG_LEVEL", "PS_LOG_FORMAT",
	"PS_HTTP_READ_TIMEOUT", "PS_HTTP_WRITE_TIMEOUT", "PS_HTTP_IDLE_TIMEOUT",
	"PS_SHUTDOWN_TIMEOUT",
	"PS_IMAGEKIT_PUBLIC_KEY", "PS_IMAGEKIT_PRIVATE_KEY", "PS_IMAGEKIT_URL_ENDPOINT",
	"PS_IMAGEKIT_API_URL", "PS_IMAGEKIT_UPLOAD_URL", "PS_IMAGEKIT_TIMEOUT",
	"PS_IMAGEKIT_CA_CERT_PATH", "PS_IMAGEKIT_PAGE_SIZE", "PS_THUMBNAIL_FOLDER",
	"PS_CACHE_TTL", "PS_CACHE_MAX_SIZE", "PS_CORS_ALLOWED_ORIGINS",
	"PS_SERVICE_ID", "PS_DEPHEALTH_GROUP", "PS_DEPHEALTH_ENABLED",
	"PS_DEPHEALTH_URL", "PS_DEPHEALTH_CHECK_INTERVAL",
}

// setEnvVars очищает все PS_* и устанавливает переданные значения.
// Исходное окружение восстанавливается автоматически после теста.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for _, k := range psEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

// requiredEnvVars возвращает минимальный набор обязательных переменных.
func requiredEnvVars() map[string]string {
	return map[string]string{
		"PS_IMAGEKIT_PRIVATE_KEY":  "private_test",
		"PS_IMAGEKIT_URL_ENDPOINT": "https://ik.imagekit.io/demo",
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	setEnvVars(t, requiredEnvVars())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 8040 {
		t.Errorf("Port: ожидалось 8040, получено %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel: ожидалось INFO, получено %v", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: ожидалось 'json', получено %q", cfg.LogFormat)
	}
	if cfg.HTTPWriteTimeout != 60*time.Second {
		t.Errorf("HTTPWriteTimeout: ожидалось 60s, получено %v", cfg.HTTPWriteTimeout)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout: ожидалось 5s, получено %v", cfg.ShutdownTimeout)
	}
	if cfg.ImageKitAPIURL != "https://api.imagekit.io/v1" {
		t.Errorf("ImageKitAPIURL: получено %q", cfg.ImageKitAPIURL)
	}
	if cfg.ImageKitUploadURL != "https://upload.imagekit.io/api/v1/files/upload" {
		t.Errorf("ImageKitUploadURL: получено %q", cfg.ImageKitUploadURL)
	}
	if cfg.ImageKitPublicKey != "" {
		t.Errorf("ImageKitPublicKey: ожидалась пустая строка, получено %q", cfg.ImageKitPublicKey)
	}
	if cfg.ImageKitPageSize != 1000 {
		t.Errorf("ImageKitPageSize: ожидалось 1000, получено %d", cfg.ImageKitPageSize)
	}
	if cfg.ThumbnailFolder != "/thumbnail" {
		t.Errorf("ThumbnailFolder: ожидалось /thumbnail, получено %q", cfg.ThumbnailFolder)
	}
	if cfg.CacheTTL != 600*time.Second {
		t.Errorf("CacheTTL: ожидалось 600s, получено %v", cfg.CacheTTL)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Errorf("CORSAllowedOrigins: ожидался nil, получено %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.DephealthEnabled {
		t.Error("DephealthEnabled: ожидалось true")
	}
	if cfg.DephealthURL != "https://ik.imagekit.io/demo" {
		t.Errorf("DephealthURL: ожидался URL endpoint, получено %q", cfg.DephealthURL)
	}
	if cfg.DephealthCheckInterval != 15*time.Second {
		t.Errorf("DephealthCheckInterval: ожидалось 15s, получено %v", cfg.DephealthCheckInterval)
	}
}

func TestLoad_AllCustomValues(t *testing.T) {
	vars := requiredEnvVars()
	vars["PS_PORT"] = "9000"
	vars["PS_LOG_LEVEL"] = "debug"
	vars["PS_LOG_FORMAT"] = "text"
	vars["PS_IMAGEKIT_PUBLIC_KEY"] = "public_test"
	vars["PS_IMAGEKIT_TIMEOUT"] = "5s"
	vars["PS_IMAGEKIT_PAGE_SIZE"] = "100"
	vars["PS_CACHE_TTL"] = "1m"
	vars["PS_CORS_ALLOWED_ORIGINS"] = "https://a.example.com, ,https://b.example.com"
	vars["PS_DEPHEALTH_ENABLED"] = "false"
	vars["PS_DEPHEALTH_URL"] = "https://status.example.com/health"
	setEnvVars(t, vars)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Port: ожидалось 9000, получено %d", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: ожидалось DEBUG, получено %v", cfg.LogLevel)
	}
	if cfg.ImageKitPublicKey != "public_test" {
		t.Errorf("ImageKitPublicKey: получено %q", cfg.ImageKitPublicKey)
	}
	if cfg.ImageKitTimeout != 5*time.Second {
		t.Errorf("ImageKitTimeout: ожидалось 5s, получено %v", cfg.ImageKitTimeout)
	}
	if cfg.ImageKitPageSize != 100 {
		t.Errorf("ImageKitPageSize: ожидалось 100, получено %d", cfg.ImageKitPageSize)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL: ожидалось 1m, получено %v", cfg.CacheTTL)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Errorf("CORSAllowedOrigins: ожидалось %v, получено %v", want, cfg.CORSAllowedOrigins)
	}
	if cfg.DephealthEnabled {
		t.Error("DephealthEnabled: ожидалось false")
	}
	if cfg.DephealthURL != "https://status.example.com/health" {
		t.Errorf("DephealthURL: получено %q", cfg.DephealthURL)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	for _, key := range []string{"PS_IMAGEKIT_PRIVATE_KEY", "PS_IMAGEKIT_URL_ENDPOINT"} {
		t.Run(key, func(t *testing.T) {
			vars := requiredEnvVars()
			delete(vars, key)
			setEnvVars(t, vars)

			_, err := Load()
			if err == nil {
				t.Fatal("ожидалась ошибка")
			}
			if !strings.Contains(err.Error(), key) {
				t.Errorf("ошибка должна упоминать %s: %v", key, err)
			}
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"PS_PORT", "abc"},
		{"PS_PORT", "70000"},
		{"PS_LOG_LEVEL", "verbose"},
		{"PS_LOG_FORMAT", "xml"},
		{"PS_HTTP_READ_TIMEOUT", "10"},
		{"PS_IMAGEKIT_URL_ENDPOINT", "ik.imagekit.io/demo"},
		{"PS_IMAGEKIT_API_URL", "ftp://api.imagekit.io"},
		{"PS_IMAGEKIT_TIMEOUT", "0s"},
		{"PS_IMAGEKIT_PAGE_SIZE", "5000"},
		{"PS_THUMBNAIL_FOLDER", "thumbnail"},
		{"PS_CACHE_TTL", "-1s"},
		{"PS_CACHE_MAX_SIZE", "0"},
		{"PS_DEPHEALTH_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			vars := requiredEnvVars()
			vars[tt.key] = tt.value
			setEnvVars(t, vars)

			_, err := Load()
			if err == nil {
				t.Fatalf("%s=%q: ожидалась ошибка", tt.key, tt.value)
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("ошибка должна упоминать %s: %v", tt.key, err)
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := parseLogLevel(tt.in)
		if err != nil {
			t.Errorf("parseLogLevel(%q): неожиданная ошибка: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, ожидалось %v", tt.in, got, tt.want)
		}
	}
}
