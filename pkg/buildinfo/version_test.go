package buildinfo

import (
	"strings"
	"testing"
)

func TestStrings(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	defer func() { Version, Commit, Date = oldV, oldC, oldD }()
	Version, Commit, Date = "v0.3.0", "abc123", "2026-01-02T03:04:05Z"

	if got := Product(); got != "featuretable/v0.3.0" {
		t.Errorf("Product() = %q", got)
	}
	if got := Template(); got != "{{.Name}} v0.3.0 (abc123, built 2026-01-02T03:04:05Z)\n" {
		t.Errorf("Template() = %q", got)
	}
	for _, want := range []string{"version: v0.3.0", "commit: abc123", "built: 2026-01-02T03:04:05Z"} {
		if !strings.Contains(String(), want) {
			t.Errorf("String() missing %q", want)
		}
	}
}
