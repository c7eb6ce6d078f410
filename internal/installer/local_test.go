package installer

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
)

func localSourceTree(t *testing.T, distName string) string {
	t.Helper()
	dir := t.TempDir()
	content := "[project]\nname = \"" + distName + "\"\nversion = \"0.1.0\"\n"
	if err := os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLocalInstall(t *testing.T) {
	dir := localSourceTree(t, "dev-plugin")
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{}, // pip install
		probeOutput("dev-plugin", "0.1.0"),
	}}
	inst := &Local{Py: interpreterWith(runner)}

	spec := config.PluginSpec{Name: "my-local", Source: config.SourceLocal, Path: dir}
	out := inst.Install(context.Background(), spec)
	if !out.OK() {
		t.Fatalf("Install failed: %v", out.Failure)
	}
	if out.Distribution != "dev-plugin" {
		t.Errorf("distribution = %q, want pyproject-declared name", out.Distribution)
	}

	wantPip := []string{"python3", "-m", "pip", "install", dir}
	if !reflect.DeepEqual(runner.calls[0], wantPip) {
		t.Errorf("pip call = %v, want %v", runner.calls[0], wantPip)
	}
}

func TestLocalInstallEditable(t *testing.T) {
	dir := localSourceTree(t, "dev-plugin")
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{},
		probeOutput("dev-plugin", "0.1.0"),
	}}
	inst := &Local{Py: interpreterWith(runner)}

	spec := config.PluginSpec{Name: "my-local", Source: config.SourceLocal, Path: dir, Editable: true}
	out := inst.Install(context.Background(), spec)
	if !out.OK() {
		t.Fatalf("Install failed: %v", out.Failure)
	}

	wantPip := []string{"python3", "-m", "pip", "install", "-e", dir}
	if !reflect.DeepEqual(runner.calls[0], wantPip) {
		t.Errorf("pip call = %v, want %v", runner.calls[0], wantPip)
	}
}

func TestLocalInstallPathNotFound(t *testing.T) {
	runner := &scriptedRunner{}
	inst := &Local{Py: interpreterWith(runner)}

	spec := config.PluginSpec{Name: "my-local", Source: config.SourceLocal, Path: filepath.Join(t.TempDir(), "missing")}
	out := inst.Install(context.Background(), spec)
	if out.OK() || out.Failure.Reason != ReasonPathNotFound {
		t.Errorf("expected PathNotFound, got %+v", out)
	}
	if len(runner.calls) != 0 {
		t.Error("pip must not run when the source path is missing")
	}
}

func TestLocalInstallNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plugin.py")
	if err := os.WriteFile(file, []byte("x = 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	inst := &Local{Py: interpreterWith(&scriptedRunner{})}
	spec := config.PluginSpec{Name: "my-local", Source: config.SourceLocal, Path: file}
	out := inst.Install(context.Background(), spec)
	if out.OK() || out.Failure.Reason != ReasonNotADirectory {
		t.Errorf("expected NotADirectory, got %+v", out)
	}
}

func TestLocalInstallPipFailure(t *testing.T) {
	dir := localSourceTree(t, "dev-plugin")
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{ExitCode: 1, Stderr: "ERROR: invalid pyproject.toml"},
	}}
	inst := &Local{Py: interpreterWith(runner)}

	spec := config.PluginSpec{Name: "my-local", Source: config.SourceLocal, Path: dir}
	out := inst.Install(context.Background(), spec)
	if out.OK() || out.Failure.Reason != ReasonInstallCommandFailed {
		t.Errorf("expected InstallCommandFailed, got %+v", out)
	}
}
