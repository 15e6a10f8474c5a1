package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityStrings(t *testing.T) {
	tests := []struct {
		sev  Severity
		name string
		tag  string
	}{
		{Success, "success", "[SUCCESS]"},
		{Warning, "warning", "[WARNING]"},
		{Info, "info", "[INFO]"},
		{Severity(42), "unknown", "[UNKNOWN]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.sev.String())
		assert.Equal(t, tt.tag, tt.sev.Tag())
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	l.Notify("Please enter a task", Warning)
	l.Notify("Task deleted", Info)

	out := buf.String()
	assert.Contains(t, out, `level=WARN msg="Please enter a task" severity=warning`)
	assert.Contains(t, out, `level=INFO msg="Task deleted" severity=info`)
}

func TestRecorderAndMulti(t *testing.T) {
	var a, b Recorder
	n := Multi(&a, nil, &b)

	_, ok := a.Last()
	assert.False(t, ok)

	n.Notify("Task added successfully!", Success)
	n.Notify("Task marked as pending", Info)

	require.Len(t, a.All(), 2)
	assert.Equal(t, a.All(), b.All())
	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "[INFO] Task marked as pending", last.String())

	a.Reset()
	assert.Empty(t, a.All())
}
