package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	infoColor    = color.New(color.FgBlue, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Console is the user-facing output surface. Log lines go through the slog
// logger; progress bars, spinners, tables and boxes write to Out directly.
// Out is the log output unless AuxOutput was set.
type Console struct {
	Logger    *slog.Logger
	Out       io.Writer
	Colorized bool
}

func NewConsole(opts *RichLoggerOptions) *Console {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	out := opts.Output
	if opts.AuxOutput != nil {
		out = opts.AuxOutput
	}

	return &Console{
		Logger:    NewRichLogger(opts),
		Out:       out,
		Colorized: opts.EnableColors && !opts.EnableJSON,
	}
}

func (c *Console) paint(col *color.Color, msg string) string {
	if !c.Colorized {
		return msg
	}
	return col.Sprint(msg)
}

func (c *Console) StartTimer(name string) *Timer {
	return &Timer{
		Name:      name,
		StartTime: time.Now(),
		Console:   c,
	}
}

func (c *Console) Success(format string, args ...interface{}) {
	c.Logger.Info(c.paint(successColor, "✓ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Info(format string, args ...interface{}) {
	c.Logger.Info(c.paint(infoColor, "ℹ "+fmt.Sprintf(format, args...)))
}

// Log prints a plain line with no icon or color.
func (c *Console) Log(format string, args ...interface{}) {
	c.Logger.Info(fmt.Sprintf(format, args...))
}

func (c *Console) Debug(format string, args ...interface{}) {
	c.Logger.Debug(fmt.Sprintf(format, args...))
}

func (c *Console) Warn(format string, args ...interface{}) {
	c.Logger.Warn(c.paint(warnColor, "⚠ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...interface{}) {
	c.Logger.Error(c.paint(errorColor, "✖ "+fmt.Sprintf(format, args...)))
}

func (c *Console) StartSpinner(message string) *Spinner {
	s := newSpinner(c, message)
	s.Start()
	return s
}

func (c *Console) NewProgressBar(total int64, label string) *ProgressBar {
	return NewProgressBar(total, label, c.Out, c.Colorized)
}

func (c *Console) NewTable(headers []string) *Table {
	return NewTable(headers, c.Out)
}

func (c *Console) Box(title string, content string) {
	lines := splitLines(content)
	maxWidth := len(title)

	for _, line := range lines {
		if len(line) > maxWidth {
			maxWidth = len(line)
		}
	}

	maxWidth += 4

	fmt.Fprintln(c.Out, "┌"+"─"+title+"─"+strings.Repeat("─", maxWidth-len(title)-2)+"┐")

	for _, line := range lines {
		fmt.Fprintln(c.Out, "│ "+line+strings.Repeat(" ", maxWidth-len(line))+" │")
	}

	fmt.Fprintln(c.Out, "└"+strings.Repeat("─", maxWidth+2)+"┘")
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
