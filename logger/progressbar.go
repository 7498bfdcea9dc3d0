package logger

import (
	"fmt"
	"io"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar tracks completed/total items of a batch.
type ProgressBar struct {
	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	out      io.Writer
	total    int64
	current  int64
	complete bool
}

func NewProgressBar(total int64, label string, out io.Writer, colorized bool) *ProgressBar {
	theme := progressbar.Theme{
		Saucer:        "█",
		SaucerHead:    "█",
		SaucerPadding: "░",
		BarStart:      "[",
		BarEnd:        "]",
	}
	if colorized {
		theme.Saucer = "[green]█[reset]"
		theme.SaucerHead = "[green]█[reset]"
	}

	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(label),
		progressbar.OptionEnableColorCodes(colorized),
		progressbar.OptionSetTheme(theme),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
	)

	return &ProgressBar{
		bar:   bar,
		out:   out,
		total: total,
	}
}

func (p *ProgressBar) Increment(amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current += amount
	if p.current > p.total {
		p.current = p.total
	}
	_ = p.bar.Set64(p.current)
}

// Clear erases the rendered bar so a log line can take its place; the next
// update draws it again.
func (p *ProgressBar) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.complete {
		_ = p.bar.Clear()
	}
}

// Current reports how many items have been counted so far.
func (p *ProgressBar) Current() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *ProgressBar) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.complete {
		return
	}

	p.current = p.total
	_ = p.bar.Finish()
	p.complete = true
	fmt.Fprintln(p.out)
}
