package storage_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/adtrail/adtrail/pkg/storage"
)

func validConfig() *storage.Config {
	return &storage.Config{
		ConnectionString: "UseDevelopmentStorage=true",
		PublicEndpoint:   "https://cdn.adtrail.io",
	}
}

func TestConfigFinalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "ad-images" {
		t.Errorf("ContainerName = %q", cfg.ContainerName)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
}

func TestConfigFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_STORAGE_CONTAINER", "archive")
	t.Setenv("TEST_STORAGE_MAX_RETRIES", "5")

	cfg := validConfig()
	err := cfg.Finalize(&storage.Env{
		ContainerName: "TEST_STORAGE_CONTAINER",
		MaxRetries:    "TEST_STORAGE_MAX_RETRIES",
	})
	if err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.ContainerName != "archive" {
		t.Errorf("ContainerName = %q", cfg.ContainerName)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*storage.Config)
		wantErr bool
	}{
		{"valid", func(c *storage.Config) {}, false},
		{"no credentials", func(c *storage.Config) { c.ConnectionString = "" }, true},
		{"account url only", func(c *storage.Config) {
			c.ConnectionString = ""
			c.AccountURL = "https://adtrail.blob.core.windows.net"
		}, false},
		{"missing endpoint", func(c *storage.Config) { c.PublicEndpoint = "" }, true},
		{"endpoint without host", func(c *storage.Config) { c.PublicEndpoint = "not-a-url" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Finalize(nil); (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := validConfig()
	cfg.Merge(&storage.Config{ContainerName: "overlay", MaxRetries: 7})

	if cfg.ContainerName != "overlay" {
		t.Errorf("ContainerName = %q", cfg.ContainerName)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
	if cfg.PublicEndpoint != "https://cdn.adtrail.io" {
		t.Errorf("PublicEndpoint clobbered: %q", cfg.PublicEndpoint)
	}
}

func TestParseMaxResults(t *testing.T) {
	tests := []struct {
		value   string
		limit   int32
		want    int32
		wantErr bool
	}{
		{"", 50, 50, false},
		{"10", 50, 10, false},
		{"50", 50, 50, false},
		{"500", 50, 50, false},
		{"0", 50, 0, true},
		{"-3", 50, 0, true},
		{"many", 50, 0, true},
	}

	for _, tt := range tests {
		got, err := storage.ParseMaxResults(tt.value, tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMaxResults(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseMaxResults(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{storage.ErrNotFound, http.StatusNotFound},
		{storage.ErrEmptyKey, http.StatusBadRequest},
		{storage.ErrInvalidKey, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := storage.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
