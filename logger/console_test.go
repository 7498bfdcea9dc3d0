package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedConsole(mutate func(*RichLoggerOptions)) (*Console, *bytes.Buffer) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Output = &buf
	opts.EnableColors = false
	if mutate != nil {
		mutate(opts)
	}
	return NewConsole(opts), &buf
}

func TestConsoleLevels(t *testing.T) {
	tests := []struct {
		name string
		log  func(c *Console)
		want string
	}{
		{name: "success", log: func(c *Console) { c.Success("saved %d", 3) }, want: "✓ saved 3\n"},
		{name: "info", log: func(c *Console) { c.Info("hello") }, want: "ℹ hello\n"},
		{name: "plain", log: func(c *Console) { c.Log("Polishing pixels...") }, want: "Polishing pixels...\n"},
		{name: "warn", log: func(c *Console) { c.Warn("careful") }, want: "WARN  ⚠ careful\n"},
		{name: "error", log: func(c *Console) { c.Error("Failed to convert %s", "a.png") }, want: "ERROR ✖ Failed to convert a.png\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newBufferedConsole(nil)
			tt.log(c)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestConsoleDebugHiddenByDefault(t *testing.T) {
	c, buf := newBufferedConsole(nil)
	c.Debug("noisy")
	assert.Zero(t, buf.Len(), "debug line printed at info level: %q", buf.String())

	c, buf = newBufferedConsole(func(o *RichLoggerOptions) { o.Level = slog.LevelDebug })
	c.Debug("noisy")
	assert.Contains(t, buf.String(), "DEBUG noisy")
}

func TestConsoleJSON(t *testing.T) {
	c, buf := newBufferedConsole(func(o *RichLoggerOptions) { o.EnableJSON = true })
	c.Logger.With("file", "a.png").Error("boom")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output is not JSON: %q", buf.String())
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "a.png", entry["file"])
}

func TestConsoleAuxOutput(t *testing.T) {
	var aux bytes.Buffer
	c, buf := newBufferedConsole(func(o *RichLoggerOptions) {
		o.EnableJSON = true
		o.AuxOutput = &aux
	})

	c.Info("hello")
	bar := c.NewProgressBar(1, "Converting images")
	bar.Increment(1)
	bar.Complete()
	table := c.NewTable([]string{"Metric", "Value"})
	table.AddRow("Failed files", "0")
	table.Print()
	c.Box("title", "body")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output is not a single JSON line: %q", buf.String())
	assert.Contains(t, aux.String(), "Converting images")
	assert.Contains(t, aux.String(), "Failed files")
	assert.Contains(t, aux.String(), "┌─title─")
}

func TestConsoleBox(t *testing.T) {
	c, buf := newBufferedConsole(nil)
	c.Box("title", "Version: dev\nGit commit: x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4, buf.String())
	assert.True(t, strings.HasPrefix(lines[0], "┌─title─"), "top border = %q", lines[0])
	assert.Contains(t, lines[1], "Version: dev")
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable([]string{"Metric", "Value"}, &buf)
	table.AddRow("Processed files", "2/3")
	table.AddRow("Failed files")
	table.Print()

	want := strings.Join([]string{
		"┌─────────────────┬───────┐",
		"│ Metric          │ Value │",
		"├─────────────────┼───────┤",
		"│ Processed files │ 2/3   │",
		"│ Failed files    │       │",
		"└─────────────────┴───────┘",
	}, "\n") + "\n"
	assert.Equal(t, want, buf.String())
}

func TestProgressBar(t *testing.T) {
	c, buf := newBufferedConsole(nil)
	bar := c.NewProgressBar(3, "Converting images")

	bar.Increment(1)
	bar.Increment(5)
	assert.EqualValues(t, 3, bar.Current(), "Increment should clamp to the total")

	bar.Complete()
	bar.Complete()
	assert.EqualValues(t, 3, bar.Current())
	assert.Contains(t, buf.String(), "Converting images")
}

func TestSpinnerStop(t *testing.T) {
	c, buf := newBufferedConsole(nil)
	s := c.StartSpinner("Encoding clip.mov")
	s.Stop(false, "Failed to convert clip.mov: boom")

	assert.Contains(t, buf.String(), "ERROR ✖ Failed to convert clip.mov: boom")
}

func TestSpinnerAnimatesUntilStopped(t *testing.T) {
	c, buf := newBufferedConsole(nil)
	s := c.StartSpinner("Encoding clip.mov")
	time.Sleep(3 * spinnerInterval)
	s.Stop(true, "Converted clip.mov")

	text := buf.String()
	assert.Contains(t, text, "Encoding clip.mov")
	assert.True(t, strings.HasSuffix(text, "✓ Converted clip.mov\n"), "result line must follow the last frame: %q", text)

	// A second Stop only reports.
	s.Stop(true, "again")
	assert.Contains(t, buf.String(), "✓ again")
}
