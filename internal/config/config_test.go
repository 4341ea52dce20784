package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adtrail/adtrail/internal/config"
)

// requiredEnv sets the minimum environment for a full config load: database
// identity and storage credentials have no defaults.
func requiredEnv(t *testing.T) {
	t.Setenv("ADTRAIL_DB_NAME", "adtrail")
	t.Setenv("ADTRAIL_DB_USER", "adtrail")
	t.Setenv("ADTRAIL_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("ADTRAIL_STORAGE_PUBLIC_ENDPOINT", "https://cdn.adtrail.io")
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	requiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.ShutdownTimeoutDuration() != 30*time.Second {
		t.Errorf("ShutdownTimeoutDuration() = %v", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Pipeline.TrustedSuffix != "fbcdn.net" {
		t.Errorf("TrustedSuffix = %q", cfg.Pipeline.TrustedSuffix)
	}
	if cfg.Pipeline.FetchFanout != 8 {
		t.Errorf("FetchFanout = %d", cfg.Pipeline.FetchFanout)
	}
	if cfg.Pipeline.Workers != 4 {
		t.Errorf("Workers = %d", cfg.Pipeline.Workers)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("BasePath = %q", cfg.API.BasePath)
	}
	if cfg.API.MaxListSize != 50 {
		t.Errorf("MaxListSize = %d", cfg.API.MaxListSize)
	}
	if cfg.API.Pagination.PageSize != 20 {
		t.Errorf("PageSize = %d", cfg.API.Pagination.PageSize)
	}
	if cfg.Fetch.Timeout != "20s" {
		t.Errorf("Fetch.Timeout = %q", cfg.Fetch.Timeout)
	}
	if cfg.Env() != "local" {
		t.Errorf("Env() = %q", cfg.Env())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	requiredEnv(t)
	t.Setenv("ADTRAIL_SERVER_HOST", "127.0.0.1")
	t.Setenv("ADTRAIL_SERVER_PORT", "9090")
	t.Setenv("ADTRAIL_SHUTDOWN_TIMEOUT", "45s")
	t.Setenv("ADTRAIL_PIPELINE_TRUSTED_SUFFIX", "cdn.example.net")
	t.Setenv("ADTRAIL_PIPELINE_FETCH_FANOUT", "16")
	t.Setenv("ADTRAIL_API_BASE_PATH", "/v1")
	t.Setenv("ADTRAIL_API_MAX_LIST_SIZE", "100")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if cfg.ShutdownTimeout != "45s" {
		t.Errorf("ShutdownTimeout = %q", cfg.ShutdownTimeout)
	}
	if cfg.Pipeline.TrustedSuffix != "cdn.example.net" {
		t.Errorf("TrustedSuffix = %q", cfg.Pipeline.TrustedSuffix)
	}
	if cfg.Pipeline.FetchFanout != 16 {
		t.Errorf("FetchFanout = %d", cfg.Pipeline.FetchFanout)
	}
	if cfg.API.BasePath != "/v1" {
		t.Errorf("BasePath = %q", cfg.API.BasePath)
	}
	if cfg.API.MaxListSize != 100 {
		t.Errorf("MaxListSize = %d", cfg.API.MaxListSize)
	}
}

func TestLoadBaseFile(t *testing.T) {
	dir := t.TempDir()
	base := `
shutdown_timeout = "20s"
version = "1.2.3"

[server]
port = 3000

[pipeline]
fetch_fanout = 2
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	requiredEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeout != "20s" {
		t.Errorf("ShutdownTimeout = %q", cfg.ShutdownTimeout)
	}
	if cfg.Version != "1.2.3" {
		t.Errorf("Version = %q", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d", cfg.Server.Port)
	}
	if cfg.Pipeline.FetchFanout != 2 {
		t.Errorf("FetchFanout = %d", cfg.Pipeline.FetchFanout)
	}
	// unset fields still fall back to defaults
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Server.Host)
	}
}

func TestLoadOverlayFile(t *testing.T) {
	dir := t.TempDir()
	base := `
[server]
port = 3000
host = "0.0.0.0"
`
	overlay := `
[server]
port = 4000
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.staging.toml"), []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	requiredEnv(t)
	t.Setenv("ADTRAIL_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 4000 {
		t.Errorf("Port = %d, want overlay value 4000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want base value preserved", cfg.Server.Host)
	}
	if cfg.Env() != "staging" {
		t.Errorf("Env() = %q", cfg.Env())
	}
}

func TestLoadRejectsInvalidShutdownTimeout(t *testing.T) {
	t.Chdir(t.TempDir())
	requiredEnv(t)
	t.Setenv("ADTRAIL_SHUTDOWN_TIMEOUT", "soon")

	if _, err := config.Load(); err == nil {
		t.Error("expected error for unparsable shutdown_timeout")
	}
}

func TestServerConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.ServerConfig
		wantErr bool
	}{
		{"defaults", config.ServerConfig{}, false},
		{"negative port", config.ServerConfig{Port: -1}, true},
		{"port too high", config.ServerConfig{Port: 70000}, true},
		{"bad read timeout", config.ServerConfig{ReadTimeout: "fast"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPipelineConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.PipelineConfig
		wantErr bool
	}{
		{"defaults", config.PipelineConfig{}, false},
		{"negative fanout", config.PipelineConfig{FetchFanout: -1}, true},
		{"negative workers", config.PipelineConfig{Workers: -2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
