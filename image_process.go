package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/avif"
	"github.com/gen2brain/jpegli"
	"github.com/gen2brain/webp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	defaultJPEGQuality = 75
	defaultWebPQuality = 75
	defaultAVIFQuality = 80
	defaultAVIFSpeed   = 6
)

// encodeFunc writes img to w. highQuality is already resolved against the
// format's lossless policy.
type encodeFunc func(w io.Writer, img image.Image, highQuality bool) error

var imageEncoders = map[string]encodeFunc{
	"jpeg": encodeJPEG,
	"jpg":  encodeJPEG,
	"png":  imagingEncoder(imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression)),
	"gif":  imagingEncoder(imaging.GIF),
	"bmp":  imagingEncoder(imaging.BMP),
	"tiff": encodeTIFF,
	"webp": encodeWebP,
	"avif": encodeAVIF,
}

func imagingEncoder(format imaging.Format, opts ...imaging.EncodeOption) encodeFunc {
	return func(w io.Writer, img image.Image, _ bool) error {
		return imaging.Encode(w, img, format, opts...)
	}
}

func encodeJPEG(w io.Writer, img image.Image, highQuality bool) error {
	if !highQuality {
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(defaultJPEGQuality))
	}
	// The stdlib encoder always subsamples chroma, jpegli can keep 4:4:4.
	return jpegli.Encode(w, img, &jpegli.EncodingOptions{
		Quality:           100,
		ChromaSubsampling: image.YCbCrSubsampleRatio444,
	})
}

func encodeTIFF(w io.Writer, img image.Image, highQuality bool) error {
	if !highQuality {
		return tiff.Encode(w, img, nil)
	}
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

func encodeWebP(w io.Writer, img image.Image, highQuality bool) error {
	return webp.Encode(w, img, webp.Options{
		Quality:  defaultWebPQuality,
		Method:   4,
		Lossless: highQuality,
		Exact:    highQuality,
	})
}

func encodeAVIF(w io.Writer, img image.Image, highQuality bool) error {
	opts := avif.Options{
		Quality:           defaultAVIFQuality,
		QualityAlpha:      defaultAVIFQuality,
		Speed:             defaultAVIFSpeed,
		ChromaSubsampling: image.YCbCrSubsampleRatio420,
	}
	if highQuality {
		opts.Quality = 100
		opts.QualityAlpha = 100
		opts.ChromaSubsampling = image.YCbCrSubsampleRatio444
	}
	return avif.Encode(w, img, opts)
}

// ImageConverter re-encodes still images with the codec registered for the
// target format.
type ImageConverter struct{}

func (ImageConverter) Convert(job Job) Outcome {
	outcome := Outcome{Job: job}

	inSize, outSize, err := convertImage(job.Input, job.Output, job.Format, job.Lossless)
	outcome.InputSize = inSize
	outcome.OutputSize = outSize
	outcome.Err = err

	return outcome
}

func convertImage(inputPath, outputPath string, f Format, lossless bool) (int64, int64, error) {
	encode, ok := imageEncoders[f.Name]
	if !ok {
		return 0, 0, fmt.Errorf("no encoder for format %q", f.Name)
	}

	fileInfo, err := os.Stat(inputPath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get file info: %w", err)
	}
	originalSize := fileInfo.Size()

	img, err := imaging.Open(inputPath, imaging.AutoOrientation(true))
	if err != nil {
		return originalSize, 0, fmt.Errorf("error decoding image: %w", err)
	}

	highQuality := lossless && f.Lossless != LosslessNone

	outputSize, err := writeAtomically(outputPath, func(w io.Writer) error {
		return encode(w, img, highQuality)
	})
	if err != nil {
		return originalSize, 0, fmt.Errorf("error encoding to %s: %w", f.Name, err)
	}

	return originalSize, outputSize, nil
}

// writeAtomically runs write against a temp file next to path and renames it
// into place only on success. An existing file at path is replaced.
func writeAtomically(path string, write func(w io.Writer) error) (size int64, err error) {
	tempFile, err := os.CreateTemp(filepath.Dir(path), ".any2any-*"+filepath.Ext(path))
	if err != nil {
		return 0, fmt.Errorf("error creating temporary file: %w", err)
	}
	tempPath := tempFile.Name()

	tempFileClosed := false
	defer func() {
		if !tempFileClosed {
			tempFile.Close()
		}
		if err != nil {
			os.Remove(tempPath)
		}
	}()

	if err = write(tempFile); err != nil {
		return 0, err
	}

	// CreateTemp uses 0600; outputs should look like any other written file.
	if err = tempFile.Chmod(0o644); err != nil {
		return 0, fmt.Errorf("error setting file mode: %w", err)
	}

	if err = tempFile.Close(); err != nil {
		return 0, fmt.Errorf("error closing temporary file: %w", err)
	}
	tempFileClosed = true

	info, err := os.Stat(tempPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get output file info: %w", err)
	}

	if err = os.Rename(tempPath, path); err != nil {
		return 0, fmt.Errorf("error renaming file: %w", err)
	}

	return info.Size(), nil
}
