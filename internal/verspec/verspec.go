// Package verspec evaluates pip-style version-range expressions (e.g.
// ">=1.0.0", "==1.2.3", "~=1.4", comma-joined conjunctions) against
// installed versions, by translating them to semver constraints.
package verspec

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Satisfied reports whether the installed version satisfies the range
// expression. An empty expression is always satisfied. A version that
// cannot be parsed while a range is declared is an error — the caller
// cannot confirm satisfaction and should treat the plugin as needing
// reinstall.
func Satisfied(installed, expr string) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return true, nil
	}

	v, err := parseVersion(installed)
	if err != nil {
		return false, fmt.Errorf("parsing installed version %q: %w", installed, err)
	}

	c, err := Constraint(expr)
	if err != nil {
		return false, err
	}

	return c.Check(v), nil
}

// Constraint translates a pip-style range expression into a semver
// constraint set. Comma-separated clauses are conjoined.
func Constraint(expr string) (*semver.Constraints, error) {
	clauses := strings.Split(expr, ",")
	translated := make([]string, 0, len(clauses))

	for _, clause := range clauses {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		t, err := translateClause(clause)
		if err != nil {
			return nil, err
		}
		translated = append(translated, t)
	}

	c, err := semver.NewConstraint(strings.Join(translated, ", "))
	if err != nil {
		return nil, fmt.Errorf("parsing version range %q: %w", expr, err)
	}
	return c, nil
}

// translateClause maps one pip operator onto its semver equivalent.
//
//	==1.2.3  → =1.2.3
//	~=1.2.3  → ~1.2.3   (compatible release: >=1.2.3, <1.3.0)
//	~=1.2    → ^1.2     (compatible release: >=1.2, <2.0)
//	>=, <=, >, <, != pass through unchanged
//	bare version → exact match
func translateClause(clause string) (string, error) {
	switch {
	case strings.HasPrefix(clause, "=="):
		return "=" + strings.TrimSpace(clause[2:]), nil
	case strings.HasPrefix(clause, "~="):
		rest := strings.TrimSpace(clause[2:])
		if strings.Count(rest, ".") >= 2 {
			return "~" + rest, nil
		}
		return "^" + rest, nil
	case strings.HasPrefix(clause, ">="), strings.HasPrefix(clause, "<="),
		strings.HasPrefix(clause, "!="):
		return clause[:2] + strings.TrimSpace(clause[2:]), nil
	case strings.HasPrefix(clause, ">"), strings.HasPrefix(clause, "<"):
		return clause[:1] + strings.TrimSpace(clause[1:]), nil
	case strings.HasPrefix(clause, "="):
		return "=" + strings.TrimSpace(strings.TrimLeft(clause, "=")), nil
	default:
		// A bare version means exact match.
		return "=" + clause, nil
	}
}

// parseVersion strips a leading "v" and parses the version string.
func parseVersion(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(strings.TrimSpace(version), "v")
	return semver.NewVersion(version)
}
