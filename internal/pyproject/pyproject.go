// Package pyproject reads the distribution identity a Python source tree
// declares in its pyproject.toml. Local and Git sources are identified in
// the live environment by this declared name, which may differ from the
// plugin name, the repository URL, or the directory name.
package pyproject

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the standard project metadata file.
const FileName = "pyproject.toml"

type projectFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name string `toml:"name"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// DistributionName returns the distribution name declared by the source
// tree rooted at dir. PEP 621 [project].name is preferred; the legacy
// [tool.poetry].name is a fallback. found is false when the tree has no
// pyproject.toml or declares no name.
func DistributionName(dir string) (name string, found bool, err error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}

	var pf projectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return "", false, fmt.Errorf("parsing %s: %w", path, err)
	}

	if pf.Project.Name != "" {
		return pf.Project.Name, true, nil
	}
	if pf.Tool.Poetry.Name != "" {
		return pf.Tool.Poetry.Name, true, nil
	}
	return "", false, nil
}
