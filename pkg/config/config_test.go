package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesYAMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "backup.yaml")
	if err := os.WriteFile(yamlPath, []byte("max_hash_concurrency: 3\ndry_run: true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	options, err := Load(yamlPath, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if options.MaxHashConcurrency != 3 {
		t.Errorf("expected MaxHashConcurrency=3, got %d", options.MaxHashConcurrency)
	}
	if !options.DryRun {
		t.Errorf("expected DryRun=true")
	}
	if options.MaxFileIOConcurrency != 4 {
		t.Errorf("expected untouched default MaxFileIOConcurrency=4, got %d", options.MaxFileIOConcurrency)
	}
}

func TestLoadMissingYAMLFallsBackToDefaults(t *testing.T) {
	options, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	if err != nil {
		t.Fatalf("unexpected error for an absent config file: %v", err)
	}
	if options.MaxFileIOConcurrency != 4 {
		t.Errorf("expected default MaxFileIOConcurrency=4, got %d", options.MaxFileIOConcurrency)
	}
}

func TestEnvironmentOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "backup.yaml")
	if err := os.WriteFile(yamlPath, []byte("max_hash_concurrency: 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("TREEBACKUP_MAX_HASH_CONCURRENCY", "7")
	defer os.Unsetenv("TREEBACKUP_MAX_HASH_CONCURRENCY")

	options, err := Load(yamlPath, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if options.MaxHashConcurrency != 7 {
		t.Errorf("expected environment override to win, got %d", options.MaxHashConcurrency)
	}
}
