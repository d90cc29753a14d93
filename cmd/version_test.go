package cmd

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldSHA := Version, CommitSHA
	t.Cleanup(func() { Version, CommitSHA = oldVersion, oldSHA })
	Version, CommitSHA = "1.2.0", "abc123"

	var out bytes.Buffer
	printVersion(&out)

	got := out.String()
	for _, want := range []string{"face-attendance 1.2.0", "abc123", runtime.Version()} {
		if !strings.Contains(got, want) {
			t.Errorf("version output %q missing %q", got, want)
		}
	}
}
