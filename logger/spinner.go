package logger

import (
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const spinnerInterval = 100 * time.Millisecond

// Spinner animates an indeterminate task on the console's auxiliary writer.
type Spinner struct {
	Message string
	Console *Console

	bar      *progressbar.ProgressBar
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

func newSpinner(c *Console, message string) *Spinner {
	return &Spinner{
		Message: message,
		Console: c,
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(c.Out),
			progressbar.OptionSetDescription(message),
			progressbar.OptionEnableColorCodes(c.Colorized),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(false),
		),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		_ = s.bar.RenderBlank()
		for {
			select {
			case <-s.done:
				_ = s.bar.Clear()
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
}

// Stop halts the animation and waits for the last frame to be cleared before
// reporting, so the result line never races the spinner. Later calls only log.
func (s *Spinner) Stop(success bool, message string) {
	s.stopOnce.Do(func() {
		close(s.done)
		<-s.stopped
	})

	if success {
		s.Console.Success("%s", message)
	} else {
		s.Console.Error("%s", message)
	}
}
