package pyproject

import (
	"os"
	"path/filepath"
	"testing"
)

func writePyproject(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("writing pyproject.toml: %v", err)
	}
}

func TestDistributionNamePEP621(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[project]
name = "vllm-add-dummy-model"
version = "0.1.0"
`)

	name, found, err := DistributionName(dir)
	if err != nil {
		t.Fatalf("DistributionName: %v", err)
	}
	if !found {
		t.Fatal("expected name to be found")
	}
	if name != "vllm-add-dummy-model" {
		t.Errorf("name = %q, want %q", name, "vllm-add-dummy-model")
	}
}

func TestDistributionNamePoetryFallback(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[tool.poetry]
name = "legacy-plugin"
version = "2.0.0"
`)

	name, found, err := DistributionName(dir)
	if err != nil {
		t.Fatalf("DistributionName: %v", err)
	}
	if !found || name != "legacy-plugin" {
		t.Errorf("got (%q, %v), want (%q, true)", name, found, "legacy-plugin")
	}
}

func TestDistributionNamePrefersPEP621OverPoetry(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[project]
name = "modern-name"

[tool.poetry]
name = "poetry-name"
`)

	name, _, err := DistributionName(dir)
	if err != nil {
		t.Fatalf("DistributionName: %v", err)
	}
	if name != "modern-name" {
		t.Errorf("name = %q, want %q", name, "modern-name")
	}
}

func TestDistributionNameMissingFile(t *testing.T) {
	name, found, err := DistributionName(t.TempDir())
	if err != nil {
		t.Fatalf("missing pyproject.toml must not be an error, got: %v", err)
	}
	if found || name != "" {
		t.Errorf("got (%q, %v), want (\"\", false)", name, found)
	}
}

func TestDistributionNameNoNameDeclared(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, `
[build-system]
requires = ["setuptools"]
`)

	_, found, err := DistributionName(dir)
	if err != nil {
		t.Fatalf("DistributionName: %v", err)
	}
	if found {
		t.Error("expected found=false when no name is declared")
	}
}

func TestDistributionNameMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	writePyproject(t, dir, "[project\nname = broken")

	if _, _, err := DistributionName(dir); err == nil {
		t.Fatal("expected error for malformed TOML")
	}
}
