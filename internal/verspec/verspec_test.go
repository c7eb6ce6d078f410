package verspec

import "testing"

func TestSatisfied(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		expr      string
		want      bool
	}{
		{"empty range always satisfied", "0.0.1", "", true},
		{"minimum met", "1.2.0", ">=1.0.0", true},
		{"minimum not met", "0.9.0", ">=1.0.0", false},
		{"exact match", "1.2.3", "==1.2.3", true},
		{"exact mismatch", "1.2.4", "==1.2.3", false},
		{"upper bound exclusive", "2.0.0", "<2.0.0", false},
		{"conjunction satisfied", "1.5.0", ">=1.0.0,<2.0.0", true},
		{"conjunction upper violated", "2.1.0", ">=1.0.0,<2.0.0", false},
		{"not equal satisfied", "1.2.4", "!=1.2.3", true},
		{"not equal violated", "1.2.3", "!=1.2.3", false},
		{"compatible release patch level", "1.4.9", "~=1.4.2", true},
		{"compatible release patch level violated", "1.5.0", "~=1.4.2", false},
		{"compatible release minor level", "1.9.0", "~=1.4", true},
		{"compatible release minor level violated", "2.0.0", "~=1.4", false},
		{"bare version exact", "1.0.0", "1.0.0", true},
		{"leading v tolerated", "v1.2.0", ">=1.0.0", true},
		{"spaces after operator", "1.2.0", ">= 1.0.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Satisfied(tt.installed, tt.expr)
			if err != nil {
				t.Fatalf("Satisfied(%q, %q) error: %v", tt.installed, tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Satisfied(%q, %q) = %v, want %v", tt.installed, tt.expr, got, tt.want)
			}
		})
	}
}

func TestSatisfiedUnparsableInstalled(t *testing.T) {
	// A local version like "0.1.dev4+g123" cannot be confirmed against a
	// declared range; the caller treats the error as "reinstall".
	if _, err := Satisfied("not.a.version.at.all", ">=1.0.0"); err == nil {
		t.Fatal("expected error for unparsable installed version with a declared range")
	}

	// Without a range the installed version is never parsed.
	ok, err := Satisfied("not.a.version.at.all", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("empty range must be satisfied regardless of installed version")
	}
}

func TestConstraintInvalidExpr(t *testing.T) {
	if _, err := Constraint(">=not-a-version"); err == nil {
		t.Fatal("expected error for invalid range expression")
	}
}
