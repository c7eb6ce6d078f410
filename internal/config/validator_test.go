package config

import (
	"strings"
	"testing"
)

func TestValidateBytesValid(t *testing.T) {
	result, err := ValidateBytes([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if !result.Valid {
		t.Errorf("expected valid, got issues: %+v", result.Issues)
	}
}

func TestValidateBytesEmptyFile(t *testing.T) {
	result, err := ValidateBytes([]byte(""))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if !result.Valid {
		t.Error("empty file must validate as an empty configuration")
	}
}

func TestValidateBytesMissingRequired(t *testing.T) {
	result, err := ValidateBytes([]byte("plugins:\n  - name: p\n    source: pypi\n"))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid: pypi plugin without package")
	}
	if len(result.Issues) == 0 {
		t.Fatal("expected at least one issue")
	}

	found := false
	for _, issue := range result.Issues {
		if issue.Keyword == "required" && strings.HasPrefix(issue.Path, "/plugins/0") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a required-keyword issue under /plugins/0, got %+v", result.Issues)
	}
}

func TestValidateBytesUnknownField(t *testing.T) {
	result, err := ValidateBytes([]byte("plugins:\n  - name: p\n    source: pypi\n    package: x\n    banana: y\n"))
	if err != nil {
		t.Fatalf("ValidateBytes: %v", err)
	}
	if result.Valid {
		t.Fatal("expected invalid: unknown field")
	}
}

func TestValidateBytesMalformedYAML(t *testing.T) {
	if _, err := ValidateBytes([]byte("plugins: [unclosed")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
