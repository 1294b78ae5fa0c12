package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gitpan/App-dropboxapi/internal/types"
)

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.json")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIBase != "https://api.dropbox.com/1" {
		t.Errorf("APIBase = %s", cfg.APIBase)
	}
	if cfg.ContentBase != "https://api-content.dropbox.com/1" {
		t.Errorf("ContentBase = %s", cfg.ContentBase)
	}
	if cfg.RequestTimeout != 60 {
		t.Errorf("RequestTimeout = %d, want 60", cfg.RequestTimeout)
	}
	if cfg.DefaultOutputFormat != types.OutputFormatTable {
		t.Errorf("DefaultOutputFormat = %s, want table", cfg.DefaultOutputFormat)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"appKey": "key123", "requestTimeout": 30, "apiBase": "https://api.example.com/1"}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AppKey != "key123" {
		t.Errorf("AppKey = %s, want key123", cfg.AppKey)
	}
	if cfg.RequestTimeout != 30 {
		t.Errorf("RequestTimeout = %d, want 30", cfg.RequestTimeout)
	}
	if cfg.APIBase != "https://api.example.com/1" {
		t.Errorf("APIBase = %s", cfg.APIBase)
	}
	// Untouched fields keep their defaults.
	if cfg.ContentBase != "https://api-content.dropbox.com/1" {
		t.Errorf("ContentBase = %s", cfg.ContentBase)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"appKey": "from-file"}`), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DROPBOX_API_APP_KEY", "from-env")
	t.Setenv("DROPBOX_API_REQUEST_TIMEOUT", "15")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AppKey != "from-env" {
		t.Errorf("AppKey = %s, want from-env", cfg.AppKey)
	}
	if cfg.RequestTimeout != 15 {
		t.Errorf("RequestTimeout = %d, want 15", cfg.RequestTimeout)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for malformed JSON")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "unknown output format", content: `{"defaultOutputFormat": "yaml"}`},
		{name: "negative timeout", content: `{"requestTimeout": -1}`},
		{name: "non-http endpoint", content: `{"apiBase": "ftp://api.example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected validation error")
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	cfg := DefaultConfig()
	cfg.AppKey = "key123"
	cfg.AppSecret = "secret456"
	cfg.TokenInKeyring = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() after Save() error = %v", err)
	}
	if loaded.AppKey != "key123" || loaded.AppSecret != "secret456" {
		t.Errorf("round trip lost credentials: %+v", loaded)
	}
	if !loaded.TokenInKeyring {
		t.Error("TokenInKeyring not round tripped")
	}
}

func TestSaveOmitsEmptyToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.TokenInKeyring = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "accessToken") {
		t.Error("empty access token serialized into the config file")
	}
}

func TestPathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/custom/location.json")
	got, err := Path("")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if got != "/custom/location.json" {
		t.Errorf("Path() = %s, want env override", got)
	}

	// An explicit override beats the environment.
	got, err = Path("/explicit.json")
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if got != "/explicit.json" {
		t.Errorf("Path() = %s, want /explicit.json", got)
	}
}
