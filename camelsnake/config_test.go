package camelsnake

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSaveAndLoadConfig(t *testing.T) {
	config := &Config{
		SkipPaths:    []string{"/health", "/metrics"},
		PreserveKeys: []string{"_id", "X-Request-ID"},
		MaxBodyBytes: 1 << 20,
		Debug:        true,
	}

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "camelsnake."+format)

			if err := SaveConfigToFile(config, path, format); err != nil {
				t.Fatalf("SaveConfigToFile() error = %v", err)
			}

			loaded, err := LoadConfigFromFile(path)
			if err != nil {
				t.Fatalf("LoadConfigFromFile() error = %v", err)
			}

			if diff := cmp.Diff(config, loaded); diff != "" {
				t.Errorf("loaded config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "config.yaml")
	yamlData := `
skip_paths:
  - /health
preserve_keys:
  - _id
max_body_bytes: 4096
`
	if err := os.WriteFile(yamlPath, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfigFromFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadConfigFromFile() error = %v", err)
	}
	if config.MaxBodyBytes != 4096 {
		t.Errorf("MaxBodyBytes = %d, want 4096", config.MaxBodyBytes)
	}
	if len(config.SkipPaths) != 1 || config.SkipPaths[0] != "/health" {
		t.Errorf("SkipPaths = %v", config.SkipPaths)
	}

	rw := NewRewriter(config)
	if err := rw.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	if _, err := LoadConfigFromFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	badPath := filepath.Join(dir, "bad.conf")
	if err := os.WriteFile(badPath, []byte("skip_paths: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFromFile(badPath); err == nil || !strings.Contains(err.Error(), "YAML or JSON") {
		t.Errorf("LoadConfigFromFile() error = %v, want parse error", err)
	}

	invalid := map[string]string{
		"negative.yaml": "max_body_bytes: -1\n",
		"relative.json": `{"skip_paths":["health"]}`,
	}
	for name, data := range invalid {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatal(err)
		}
		config, err := LoadConfigFromFile(path)
		if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("LoadConfigFromFile(%s) error = %v, want invalid configuration", name, err)
		}
		if config != nil {
			t.Errorf("LoadConfigFromFile(%s) returned a config alongside the error", name)
		}
	}
}

func TestSaveConfigToFile_UnsupportedFormat(t *testing.T) {
	err := SaveConfigToFile(&Config{}, filepath.Join(t.TempDir(), "c.toml"), "toml")
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("SaveConfigToFile() error = %v, want unsupported format", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{
			name:   "valid",
			config: &Config{SkipPaths: []string{"/a", "/b"}, PreserveKeys: []string{"_id"}, MaxBodyBytes: 10},
		},
		{
			name:    "nil",
			config:  nil,
			wantErr: "configuration is nil",
		},
		{
			name:    "negative limit",
			config:  &Config{MaxBodyBytes: -1},
			wantErr: "cannot be negative",
		},
		{
			name:    "relative skip path",
			config:  &Config{SkipPaths: []string{"health"}},
			wantErr: "must start with /",
		},
		{
			name:    "duplicate skip path",
			config:  &Config{SkipPaths: []string{"/a", "/a"}},
			wantErr: "duplicate skip path",
		},
		{
			name:    "empty preserve key",
			config:  &Config{PreserveKeys: []string{"_id", ""}},
			wantErr: "preserve key 1 cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.config)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateConfig() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidateConfig() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
