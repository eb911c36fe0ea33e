package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/portalvis/pkg/vis"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portalvis.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[visibility]
max_portal_depth = 8
link_mode = "bsp"

[view]
fov_degrees = 90

[logging]
format = "json"

[bench]
workers = 2
seed = 42
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Visibility.MaxPortalDepth != 8 {
		t.Errorf("MaxPortalDepth = %d, want 8", cfg.Visibility.MaxPortalDepth)
	}
	if cfg.Visibility.PoolBlockSize != vis.DefaultPoolBlockSize {
		t.Errorf("PoolBlockSize = %d, want the default", cfg.Visibility.PoolBlockSize)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Bench.Workers != 2 || cfg.Bench.Seed != 42 || cfg.Bench.Rays != 100000 {
		t.Errorf("Bench = %+v", cfg.Bench)
	}
	if math.Abs(cfg.View.FOV()-math.Pi/2) > 1e-9 {
		t.Errorf("FOV() = %v, want pi/2", cfg.View.FOV())
	}

	opts := cfg.Visibility.Options(nil)
	if opts.LinkMode != vis.LinkBSP || opts.MaxPortalDepth != 8 {
		t.Errorf("Options() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[visibility\n", "parse config"},
		{"link mode", "[visibility]\nlink_mode = \"octree\"\n", "link_mode"},
		{"fov", "[view]\nfov_degrees = 180\n", "fov_degrees"},
		{"near far", "[view]\nnear = 10.0\nfar = 5.0\n", "near"},
		{"size", "[view]\nwidth = 0\n", "size"},
		{"workers", "[bench]\nworkers = 0\n", "workers"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("err = %v, want a read error", err)
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if math.Abs(cfg.View.Aspect()-640.0/360.0) > 1e-9 {
		t.Errorf("Aspect() = %v", cfg.View.Aspect())
	}
	if cfg.Visibility.Options(nil).LinkMode != vis.LinkAuto {
		t.Error("default link mode should be auto")
	}
}

func TestLoadSampleConfig(t *testing.T) {
	cfg, err := Load("../../portalvis.toml")
	if err != nil {
		t.Fatalf("sample config: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("sample config %+v differs from the defaults", *cfg)
	}
}
