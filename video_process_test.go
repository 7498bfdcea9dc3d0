package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func videoJob(t *testing.T) Job {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(input, []byte("not really a movie"), 0o644))

	f, _ := LookupFormat("mp4", KindVideo)
	return Job{Input: input, Output: OutputPath(dir, input, f.Name), Format: f}
}

func TestVideoConverterMissingBinary(t *testing.T) {
	v := VideoConverter{Binary: "definitely-not-ffmpeg-any2any"}

	outcome := v.Convert(videoJob(t))
	assert.ErrorIs(t, outcome.Err, ErrFFmpegNotFound)
}

func TestVideoConverterCommand(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")
	job := videoJob(t)

	cmd, err := VideoConverter{Binary: bin}.Command(job)
	require.NoError(t, err)
	assert.Equal(t, bin, cmd.Path)
	assert.NoError(t, cmd.Err, "command carries a lookup error")

	args := cmd.Args[1:]
	assert.Subset(t, args, []string{"-i", job.Input, job.Output, "-y"})
}

// The configured binary runs even when no ffmpeg is on PATH.
func TestVideoConverterUsesConfiguredBinaryOnly(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")
	t.Setenv("PATH", t.TempDir())

	outcome := VideoConverter{Binary: bin}.Convert(videoJob(t))
	require.NoError(t, outcome.Err)
}

func TestVideoConverterSuccess(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")

	outcome := VideoConverter{Binary: bin}.Convert(videoJob(t))
	require.False(t, outcome.Failed(), "unexpected failure: %v", outcome.Err)
	assert.NotZero(t, outcome.InputSize)
}

func TestVideoConverterWritesNothingToStandardLog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	bin := fakeFFmpeg(t, "exit 0")
	outcome := VideoConverter{Binary: bin}.Convert(videoJob(t))
	require.NoError(t, outcome.Err)

	assert.Empty(t, buf.String())
}

func TestVideoConverterFailureCarriesDiagnostics(t *testing.T) {
	bin := fakeFFmpeg(t, "echo 'banner line' >&2\necho 'clip.mov: Invalid data found when processing input' >&2\nexit 1")

	outcome := VideoConverter{Binary: bin}.Convert(videoJob(t))
	require.True(t, outcome.Failed())

	msg := outcome.Err.Error()
	assert.Regexp(t, `^ffmpeg error: exit status 1`, msg)
	assert.Contains(t, msg, "Invalid data found when processing input")
}

func TestLastLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "empty", in: "", n: 3, want: ""},
		{name: "fewer", in: "a\nb", n: 3, want: "a | b"},
		{name: "trimmed", in: "a\nb\nc\nd", n: 2, want: "c | d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lastLines(tt.in, tt.n))
		})
	}
}
