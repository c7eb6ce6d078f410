package pyenv

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// probeScript prints JSON metadata for one installed distribution, or
// exits with probeNotFoundExit when the distribution is not installed.
const probeScript = `import importlib.metadata, json, sys
try:
    dist = importlib.metadata.distribution(sys.argv[1])
except importlib.metadata.PackageNotFoundError:
    sys.exit(3)
eps = sorted("%s:%s" % (ep.group, ep.name) for ep in dist.entry_points)
print(json.dumps({"name": dist.metadata["Name"], "version": dist.version, "entry_points": eps}))
`

// entryPointsScript prints a JSON object mapping each requested group to
// its "name = value" entry-point descriptors.
const entryPointsScript = `import importlib.metadata, json, sys
groups = sys.argv[1:]
out = {g: [] for g in groups}
eps = importlib.metadata.entry_points()
for g in groups:
    try:
        sel = eps.select(group=g)
    except AttributeError:
        sel = eps.get(g, [])
    for ep in sel:
        out[g].append("%s = %s" % (ep.name, ep.value))
for g in out:
    out[g].sort()
print(json.dumps(out))
`

const probeNotFoundExit = 3

// Distribution is the metadata of one installed Python distribution.
type Distribution struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	EntryPoints []string `json:"entry_points"` // "group:name" form
}

// Interpreter invokes one Python interpreter for metadata probes and pip
// installs.
type Interpreter struct {
	Python string // interpreter executable (path or name on PATH)
	Runner Runner
}

// Find locates the Python interpreter. An explicit override (from settings
// or the PLUGSYNC_PYTHON environment variable, resolved by the caller)
// wins; otherwise python3 then python are searched on PATH.
func Find(override string, runner Runner) (*Interpreter, error) {
	if runner == nil {
		runner = ExecRunner{}
	}
	if override != "" {
		return &Interpreter{Python: override, Runner: runner}, nil
	}
	for _, name := range []string{"python3", "python"} {
		if path, err := exec.LookPath(name); err == nil {
			return &Interpreter{Python: path, Runner: runner}, nil
		}
	}
	return nil, fmt.Errorf("no python interpreter found on PATH")
}

// Probe reads the installed metadata for one distribution by name.
// found is false when the distribution is not installed. Probe never
// mutates environment state.
func (py *Interpreter) Probe(ctx context.Context, distName string) (*Distribution, bool, error) {
	out, err := py.Runner.Run(ctx, py.Python, "-c", probeScript, distName)
	if err != nil {
		return nil, false, fmt.Errorf("running metadata probe: %w", err)
	}
	if out.ExitCode == probeNotFoundExit {
		return nil, false, nil
	}
	if out.ExitCode != 0 {
		return nil, false, fmt.Errorf("metadata probe for %q failed: %s", distName, tail(out.Stderr))
	}

	var dist Distribution
	if err := json.Unmarshal([]byte(out.Stdout), &dist); err != nil {
		return nil, false, fmt.Errorf("parsing metadata probe output for %q: %w", distName, err)
	}
	return &dist, true, nil
}

// EntryPoints enumerates the live environment's entry points for the given
// groups. The result maps group name to "name = value" descriptors.
func (py *Interpreter) EntryPoints(ctx context.Context, groups []string) (map[string][]string, error) {
	args := append([]string{"-c", entryPointsScript}, groups...)
	out, err := py.Runner.Run(ctx, py.Python, args...)
	if err != nil {
		return nil, fmt.Errorf("running entry-point enumeration: %w", err)
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("entry-point enumeration failed: %s", tail(out.Stderr))
	}

	var points map[string][]string
	if err := json.Unmarshal([]byte(out.Stdout), &points); err != nil {
		return nil, fmt.Errorf("parsing entry-point enumeration output: %w", err)
	}
	return points, nil
}

// PipInstall runs `python -m pip install` with the given arguments as a
// single atomic install command. A nonzero exit is reported through the
// returned Output; the error covers only failures to run pip at all.
func (py *Interpreter) PipInstall(ctx context.Context, args ...string) (*Output, error) {
	full := append([]string{"-m", "pip", "install"}, args...)
	return py.Runner.Run(ctx, py.Python, full...)
}

// tail returns the last few lines of command output, for error detail.
func tail(s string) string {
	s = strings.TrimSpace(s)
	lines := strings.Split(s, "\n")
	const keep = 5
	if len(lines) > keep {
		lines = lines[len(lines)-keep:]
	}
	return strings.Join(lines, "\n")
}
