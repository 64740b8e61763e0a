package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mapsketch/mapsketch/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultOptimizationLevel = 3
	cfg.Theme = "dark"
	cfg.RecentFiles = []string{"/tmp/regions.geojson", "/tmp/site.dxf"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultOptimizationLevel != 3 {
		t.Errorf("expected DefaultOptimizationLevel=3, got %d", loaded.DefaultOptimizationLevel)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if len(loaded.RecentFiles) != 2 {
		t.Errorf("expected 2 recent files, got %d", len(loaded.RecentFiles))
	}
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()

	if filepath.Base(path) != "config.json" {
		t.Errorf("expected config.json file name, got %s", path)
	}
	parent := filepath.Base(filepath.Dir(path))
	if parent != "mapsketch" && parent != ".mapsketch" {
		t.Errorf("expected an application-named config dir, got %s", path)
	}
}

func TestSaveAppConfigOverwritesWithoutLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	first := model.DefaultAppConfig()
	first.Theme = "light"
	if err := SaveAppConfig(path, first); err != nil {
		t.Fatalf("first SaveAppConfig failed: %v", err)
	}

	second := model.DefaultAppConfig()
	second.Theme = "dark"
	if err := SaveAppConfig(path, second); err != nil {
		t.Fatalf("second SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark after overwrite, got %s", loaded.Theme)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only config.json in %s, found %d entries", dir, len(entries))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultModifierKey != defaults.DefaultModifierKey {
		t.Errorf("expected default modifier %s, got %s", defaults.DefaultModifierKey, cfg.DefaultModifierKey)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"default_modifier_key":"Alt","theme":"light","recent_files":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentFiles == nil {
		t.Error("RecentFiles should not be nil after loading")
	}
}
