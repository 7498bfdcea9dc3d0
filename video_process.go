package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

var ErrFFmpegNotFound = errors.New("ffmpeg not found in PATH")

func init() {
	// ffmpeg-go would otherwise print every command line through the
	// standard log package, bypassing the console.
	ffmpeg.LogCompiledCommand = false
}

// stderrTailLines bounds how much ffmpeg diagnostic text is kept in an error.
const stderrTailLines = 5

// VideoConverter re-encodes a video with ffmpeg's defaults for the target
// container, replacing any existing output.
type VideoConverter struct {
	// Binary is the ffmpeg executable name or path. Empty means "ffmpeg".
	Binary string
}

func (v VideoConverter) binary() string {
	if v.Binary == "" {
		return "ffmpeg"
	}
	return v.Binary
}

// Command builds the ffmpeg invocation for a job without running it.
func (v VideoConverter) Command(job Job) (*exec.Cmd, error) {
	path, err := exec.LookPath(v.binary())
	if err != nil {
		return nil, ErrFFmpegNotFound
	}

	cmd := ffmpeg.Input(job.Input).
		Output(job.Output).
		OverWriteOutput().
		SetFfmpegPath(path).
		Compile()

	return cmd, nil
}

func (v VideoConverter) Convert(job Job) Outcome {
	outcome := Outcome{Job: job}

	if info, err := os.Stat(job.Input); err == nil {
		outcome.InputSize = info.Size()
	}

	cmd, err := v.Command(job)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		outcome.Err = ffmpegError(err, stderr.String())
		return outcome
	}

	if info, err := os.Stat(job.Output); err == nil {
		outcome.OutputSize = info.Size()
	}

	return outcome
}

func ffmpegError(runErr error, stderr string) error {
	tail := lastLines(strings.TrimSpace(stderr), stderrTailLines)
	if tail == "" {
		return fmt.Errorf("ffmpeg error: %w", runErr)
	}
	return fmt.Errorf("ffmpeg error: %w: %s", runErr, tail)
}

func lastLines(s string, n int) string {
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, " | ")
}
