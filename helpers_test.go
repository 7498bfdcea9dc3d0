package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"any2any/logger"

	"github.com/stretchr/testify/require"
)

// writeTestPNG writes an opaque gradient so lossy and lossless paths differ.
func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x*7 + y*13) % 256),
				A: 255,
			})
		}
	}

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, img))
	return path
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, format, err := image.Decode(f)
	require.NoError(t, err, "decoding %s", path)
	return img, format
}

func newTestConsole() (*logger.Console, *bytes.Buffer) {
	var buf bytes.Buffer
	opts := logger.DefaultOptions()
	opts.Output = &buf
	opts.EnableColors = false
	return logger.NewConsole(opts), &buf
}

// fixedSource replays a fixed sequence of choices.
type fixedSource struct {
	values []int
	next   int
}

func (s *fixedSource) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}
