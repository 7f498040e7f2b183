package cli

import (
	"strings"
	"testing"
)

func TestProgressLogsDuration(t *testing.T) {
	var buf strings.Builder
	l := newLogger(&buf, LogInfo)

	newProgress(l).done("Exported 3 blueprints")

	out := buf.String()
	if !strings.Contains(out, "Exported 3 blueprints (") {
		t.Errorf("Progress output missing duration: %q", out)
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf strings.Builder
	l := newLogger(&buf, LogInfo)

	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Debug message should be filtered at info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("Info message should pass at info level")
	}
}
