package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestNormalizeBasePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"dash", "/dash"},
		{"/dash", "/dash"},
		{"/dash/", "/dash"},
		{"  /dash/  ", "/dash"},
		{"/a/b/", "/a/b"},
	}
	for _, c := range cases {
		if got := normalizeBasePath(c.in); got != c.want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestModuleSettingsParam(t *testing.T) {
	ms := ModuleSettings{Params: map[string]string{"city": "Oslo", "units": ""}}
	if got := ms.Param("city", "London"); got != "Oslo" {
		t.Errorf("Param(city) = %q, want Oslo", got)
	}
	if got := ms.Param("units", "metric"); got != "metric" {
		t.Errorf("Param(units) = %q, want default metric", got)
	}
	if got := ms.Param("missing", "x"); got != "x" {
		t.Errorf("Param(missing) = %q, want default x", got)
	}
}

func TestResolveModules(t *testing.T) {
	os.Setenv("HOMEDASH_TEST_KEY", "secret123")
	defer os.Unsetenv("HOMEDASH_TEST_KEY")

	cfg := DefaultConfig()
	cfg.RequestTimeout = 5
	cfg.Modules = []ModuleSettings{
		{Name: "weather", Module: "weather", APIKeyEnv: "HOMEDASH_TEST_KEY"},
		{Name: "clock", Module: "clock"},
	}
	cfg.resolveModules()

	if cfg.Modules[0].APIKey != "secret123" {
		t.Errorf("APIKey = %q, want secret123", cfg.Modules[0].APIKey)
	}
	if cfg.Modules[0].Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Modules[0].Timeout)
	}
	if cfg.Modules[1].APIKey != "" {
		t.Errorf("clock APIKey = %q, want empty", cfg.Modules[1].APIKey)
	}
}

func TestResolveModulesDefaultTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 0
	cfg.Modules = []ModuleSettings{{Name: "clock", Module: "clock"}}
	cfg.resolveModules()
	if cfg.Modules[0].Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s fallback", cfg.Modules[0].Timeout)
	}
}

func TestYAMLModuleOrder(t *testing.T) {
	raw := `
listen: "0.0.0.0:8080"
refresh_interval: 120
modules:
  - name: weather
    module: weather
    params:
      city: Berlin
  - name: stocks
    module: stocks
    params:
      symbols: "AAPL,MSFT"
  - name: clock
    module: clock
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		t.Fatal(err)
	}

	if cfg.Listen != "0.0.0.0:8080" {
		t.Errorf("Listen = %q", cfg.Listen)
	}
	if cfg.RefreshInterval != 120 {
		t.Errorf("RefreshInterval = %d", cfg.RefreshInterval)
	}
	want := []string{"weather", "stocks", "clock"}
	if len(cfg.Modules) != len(want) {
		t.Fatalf("got %d modules, want %d", len(cfg.Modules), len(want))
	}
	for i, name := range want {
		if cfg.Modules[i].Name != name {
			t.Errorf("module %d = %q, want %q", i, cfg.Modules[i].Name, name)
		}
	}
	if cfg.Modules[0].Param("city", "") != "Berlin" {
		t.Errorf("city param = %q", cfg.Modules[0].Param("city", ""))
	}
	// Unset fields keep their defaults
	if cfg.DBPath != "homedash.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
}
