package installer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/plugsync-labs/plugsync/internal/config"
	"github.com/plugsync-labs/plugsync/internal/pyenv"
)

func pypiSpec() config.PluginSpec {
	return config.PluginSpec{
		Name:    "my-plugin",
		Source:  config.SourcePyPI,
		Package: "pkg-a",
		Version: ">=0.1.0",
	}
}

func TestPyPIInstall(t *testing.T) {
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{}, // pip install
		probeOutput("pkg-a", "1.2.0"),
	}}
	inst := &PyPI{Py: interpreterWith(runner)}

	out := inst.Install(context.Background(), pypiSpec())
	if !out.OK() {
		t.Fatalf("Install failed: %v", out.Failure)
	}
	if out.Distribution != "pkg-a" || out.Version != "1.2.0" {
		t.Errorf("unexpected outcome: %+v", out)
	}

	wantPip := []string{"python3", "-m", "pip", "install", "pkg-a>=0.1.0"}
	if !reflect.DeepEqual(runner.calls[0], wantPip) {
		t.Errorf("pip call = %v, want %v", runner.calls[0], wantPip)
	}
}

func TestPyPIInstallPipExitNonzero(t *testing.T) {
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{ExitCode: 1, Stderr: "ERROR: No matching distribution found for pkg-a"},
	}}
	inst := &PyPI{Py: interpreterWith(runner)}

	out := inst.Install(context.Background(), pypiSpec())
	if out.OK() {
		t.Fatal("expected failure")
	}
	if out.Failure.Reason != ReasonInstallCommandFailed {
		t.Errorf("reason = %q, want InstallCommandFailed", out.Failure.Reason)
	}
	if len(runner.calls) != 1 {
		t.Errorf("no verification probe expected after pip failure, got %d calls", len(runner.calls))
	}
}

func TestPyPIInstallPipCannotRun(t *testing.T) {
	runner := &scriptedRunner{errs: []error{errors.New("exec: \"python3\": not found")}}
	inst := &PyPI{Py: interpreterWith(runner)}

	out := inst.Install(context.Background(), pypiSpec())
	if out.OK() || out.Failure.Reason != ReasonInstallCommandFailed {
		t.Errorf("expected InstallCommandFailed, got %+v", out)
	}
}

func TestPyPIInstallVerificationFailed(t *testing.T) {
	runner := &scriptedRunner{outputs: []*pyenv.Output{
		{}, // pip reports success
		{ExitCode: 3}, // but the distribution is not importable
	}}
	inst := &PyPI{Py: interpreterWith(runner)}

	out := inst.Install(context.Background(), pypiSpec())
	if out.OK() {
		t.Fatal("expected failure")
	}
	if out.Failure.Reason != ReasonVerificationFailed {
		t.Errorf("reason = %q, want PostInstallVerificationFailed", out.Failure.Reason)
	}
}
