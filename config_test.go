package nanodbc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// Configuration Tests (config.go)
// =============================================================================

func TestParseConfig(t *testing.T) {
	data := []byte(`
library_path: /opt/odbc/libodbc.so.2
login_timeout: 30
param_array_length: 500
rowset_size: 100
`)
	c, err := parseConfig(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LibraryPath != "/opt/odbc/libodbc.so.2" {
		t.Errorf("expected library path, got %q", c.LibraryPath)
	}
	if c.LoginTimeout != 30 {
		t.Errorf("expected login timeout 30, got %d", c.LoginTimeout)
	}
	if c.ParamArrayLength != 500 {
		t.Errorf("expected param array length 500, got %d", c.ParamArrayLength)
	}
	if c.RowsetSize != 100 {
		t.Errorf("expected rowset size 100, got %d", c.RowsetSize)
	}
}

func TestParseConfig_Empty(t *testing.T) {
	c, err := parseConfig([]byte(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LibraryPath != "" || c.LoginTimeout != 0 {
		t.Errorf("expected zero config, got %+v", c)
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	_, err := parseConfig([]byte("rowset_size: [not scalar"))
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("expected parse context in error, got %q", err.Error())
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nanodbc.yaml")
	content := []byte("login_timeout: 15\nrowset_size: 8\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Cleanup(func() { SetConfig(nil) })

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.LoginTimeout != 15 || c.RowsetSize != 8 {
		t.Errorf("unexpected config: %+v", c)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected read context in error, got %q", err.Error())
	}
}

func TestConfig_BatchOps(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		expected BatchOps
	}{
		{"zero config", Config{}, DefaultBatchOps()},
		{"both set", Config{ParamArrayLength: 500, RowsetSize: 100}, BatchOps{ParamArrayLength: 500, RowsetSize: 100}},
		{"rowset only", Config{RowsetSize: 32}, BatchOps{ParamArrayLength: BatchSizeUnset, RowsetSize: 32}},
		{"negative stays unset", Config{ParamArrayLength: -3}, DefaultBatchOps()},
	}

	for _, tt := range tests {
		if got := tt.config.BatchOps(); got != tt.expected {
			t.Errorf("%s: expected %+v, got %+v", tt.name, tt.expected, got)
		}
	}
}
