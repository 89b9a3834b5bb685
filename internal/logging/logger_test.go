package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "pipeline", "info")

	l.Info("grid inferred", "width", 15, "height", 12)

	out := buf.String()
	for _, want := range []string{"grid inferred", "width=15", "height=12", "component=pipeline", "level=info"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLogger_OddKeyValuesIgnored(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "test", "info")

	l.Warn("dangling", "only-key")

	if strings.Contains(buf.String(), "only-key") {
		t.Errorf("dangling key should be dropped: %q", buf.String())
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "test", "warn")

	l.Info("hidden")
	l.Debug("hidden too")
	if buf.Len() != 0 {
		t.Errorf("expected nothing below warn, got %q", buf.String())
	}
	if l.DebugEnabled() {
		t.Error("DebugEnabled: got true at warn level")
	}

	l.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("error line missing: %q", buf.String())
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "test", "debug").With("run_id", "abc")

	l.Debug("step")

	if !strings.Contains(buf.String(), "run_id=abc") {
		t.Errorf("child field missing: %q", buf.String())
	}
}

func TestParseLevel_Unknown(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, "test", "loud")

	l.Info("defaults to info")
	if !strings.Contains(buf.String(), "defaults to info") {
		t.Errorf("unknown level should fall back to info: %q", buf.String())
	}
}
