package cli

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mverhagen/bpdoc/pkg/cache"
	"github.com/mverhagen/bpdoc/pkg/config"
	"github.com/mverhagen/bpdoc/pkg/errors"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".cache", "bpdoc")
	if dir != expected {
		t.Errorf("cacheDir() = %q, want %q", dir, expected)
	}
}

func TestCacheDirXDGOverride(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", "bpdoc") {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	dir, err := dataDir()
	if err != nil {
		t.Fatalf("dataDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".local", "share", "bpdoc")
	if dir != expected {
		t.Errorf("dataDir() = %q, want %q", dir, expected)
	}
}

func TestDataDirXDGOverride(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	dir, err := dataDir()
	if err != nil {
		t.Fatalf("dataDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-data", "bpdoc") {
		t.Errorf("dataDir() = %q", dir)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"json", []string{"json"}},
		{"json,markdown", []string{"json", "markdown"}},
		{"json, svg ,png", []string{"json", "svg", "png"}},
	}

	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewCacheDisabled(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		noCache bool
	}{
		{"none backend", config.CacheConfig{Backend: "none"}, false},
		{"no-cache flag wins", config.CacheConfig{Backend: "file"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := newCache(context.Background(), tt.cfg, tt.noCache)
			if err != nil {
				t.Fatalf("newCache error: %v", err)
			}
			if _, ok := store.(*cache.NullCache); !ok {
				t.Errorf("newCache = %T, want *cache.NullCache", store)
			}
		})
	}
}

func TestNewCacheFileBackend(t *testing.T) {
	dir := t.TempDir()
	store, err := newCache(context.Background(), config.CacheConfig{Backend: "file", Dir: dir}, false)
	if err != nil {
		t.Fatalf("newCache error: %v", err)
	}
	if _, ok := store.(*cache.NullCache); ok {
		t.Error("File backend should not degrade to the null cache")
	}
}

func TestNewCacheUnknownBackend(t *testing.T) {
	_, err := newCache(context.Background(), config.CacheConfig{Backend: "memcached"}, false)
	if err == nil {
		t.Fatal("Unknown backend should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Expected INVALID_CONFIG, got %v", err)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(os.Stderr, LogInfo)
	root := c.RootCommand()

	want := []string{"export", "list", "watch", "serve", "history", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Root command is missing %q", name)
		}
	}
}

func TestSourceRoot(t *testing.T) {
	cfg := config.Config{AssetRoot: "/srv/assets"}

	if got := sourceRoot(cfg, "/override"); got != "/override" {
		t.Errorf("Flag should win, got %q", got)
	}
	if got := sourceRoot(cfg, ""); got != "/srv/assets" {
		t.Errorf("Config should apply, got %q", got)
	}
	if got := sourceRoot(config.Config{}, ""); got != "." {
		t.Errorf("Default should be the working directory, got %q", got)
	}
}

func TestExportOptionsOverrides(t *testing.T) {
	cfg := config.Default()
	c := New(os.Stderr, LogInfo)

	opts := exportOpts{formats: "svg", out: "build/docs", toc: true, index: true}
	p, err := exportOptions(cfg, &opts, c)
	if err != nil {
		t.Fatalf("exportOptions error: %v", err)
	}

	if !reflect.DeepEqual(p.Formats, []string{"svg"}) {
		t.Errorf("Formats = %v", p.Formats)
	}
	if p.OutDir != "build/docs" {
		t.Errorf("OutDir = %q", p.OutDir)
	}
	if !p.TOC {
		t.Error("TOC flag should carry through")
	}
	if !p.WriteIndex {
		t.Error("Index should default on")
	}

	// Without overrides the config values apply.
	p, err = exportOptions(cfg, &exportOpts{index: true}, c)
	if err != nil {
		t.Fatalf("exportOptions error: %v", err)
	}
	if !reflect.DeepEqual(p.Formats, cfg.Formats) {
		t.Errorf("Formats = %v, want config default %v", p.Formats, cfg.Formats)
	}
	if p.OutDir != cfg.OutDir {
		t.Errorf("OutDir = %q, want %q", p.OutDir, cfg.OutDir)
	}
}

