package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestErrorAndSuccess(t *testing.T) {
	var out, errOut bytes.Buffer
	oldOut, oldErr := Stdout, Stderr
	Stdout, Stderr = &out, &errOut
	defer func() { Stdout, Stderr = oldOut, oldErr }()

	Success("feature %s set to %t", "x", true)
	Error("boom: %d", 42)

	if !strings.Contains(out.String(), "feature x set to true") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "boom: 42") {
		t.Errorf("stderr = %q", errOut.String())
	}
	if strings.Contains(out.String(), "boom") {
		t.Error("error written to stdout")
	}
}
