package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  url: https://api.insighthub.example
  web_url: https://insighthub.example
page_size: 25
search_debounce: 1s
scroll_throttle: 250ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL != "https://api.insighthub.example" {
		t.Errorf("Server.URL = %q", cfg.Server.URL)
	}
	if cfg.GetPageSize() != 25 {
		t.Errorf("GetPageSize = %d, want 25", cfg.GetPageSize())
	}
	if cfg.SearchDebounceDuration() != time.Second {
		t.Errorf("SearchDebounceDuration = %v, want 1s", cfg.SearchDebounceDuration())
	}
	if cfg.ScrollThrottleDuration() != 250*time.Millisecond {
		t.Errorf("ScrollThrottleDuration = %v, want 250ms", cfg.ScrollThrottleDuration())
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.URL == "" {
		t.Error("defaults have no server url")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written to %s: %v", path, err)
	}
}

func TestDefaults(t *testing.T) {
	var cfg Config

	if got := cfg.GetPageSize(); got != 10 {
		t.Errorf("GetPageSize = %d, want 10", got)
	}
	if got := cfg.SearchDebounceDuration(); got != 500*time.Millisecond {
		t.Errorf("SearchDebounceDuration = %v, want 500ms", got)
	}
	if got := cfg.ScrollThrottleDuration(); got != 300*time.Millisecond {
		t.Errorf("ScrollThrottleDuration = %v, want 300ms", got)
	}
}

func TestDurationFallbackOnGarbage(t *testing.T) {
	cfg := Config{SearchDebounce: "soon", ScrollThrottle: "-5s"}

	if got := cfg.SearchDebounceDuration(); got != 500*time.Millisecond {
		t.Errorf("SearchDebounceDuration = %v, want fallback 500ms", got)
	}
	if got := cfg.ScrollThrottleDuration(); got != 300*time.Millisecond {
		t.Errorf("ScrollThrottleDuration = %v, want fallback 300ms", got)
	}
}

func TestPostWebURL(t *testing.T) {
	cfg := Config{Server: ServerConfig{
		URL:    "https://api.insighthub.example",
		WebURL: "https://insighthub.example",
	}}
	if got := cfg.PostWebURL("abc123"); got != "https://insighthub.example/blog/abc123" {
		t.Errorf("PostWebURL = %q", got)
	}

	// Falls back to the API URL when no web URL is configured.
	cfg.Server.WebURL = ""
	if got := cfg.PostWebURL("abc123"); got != "https://api.insighthub.example/blog/abc123" {
		t.Errorf("PostWebURL fallback = %q", got)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing server url",
			content: "server:\n  url: \"\"\n",
			wantErr: "server url is required",
		},
		{
			name:    "bad scheme",
			content: "server:\n  url: ftp://example.com\n",
			wantErr: "scheme must be http or https",
		},
		{
			name:    "bad web url scheme",
			content: "server:\n  url: https://api.example.com\n  web_url: file:///tmp\n",
			wantErr: "web url scheme",
		},
		{
			name:    "page size out of range",
			content: "server:\n  url: https://api.example.com\npage_size: 500\n",
			wantErr: "page_size must be between",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}
