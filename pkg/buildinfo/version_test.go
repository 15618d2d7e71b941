package buildinfo

import (
	"strings"
	"testing"
)

func TestTemplate(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)
	Version, Commit = "v1.2.3", "abc123"

	tmpl := Template()
	if !strings.HasPrefix(tmpl, "{{.Name}} version v1.2.3\n") || !strings.Contains(tmpl, "commit: abc123") {
		t.Errorf("Template() = %q", tmpl)
	}
	if got := Get(); got.Version != "v1.2.3" || got.Go == "" {
		t.Errorf("Get() = %+v", got)
	}
}
