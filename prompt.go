package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrInputClosed = errors.New("input closed before interactive setup finished")

// Prompter asks for any conversion parameter the command line left out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// isFile reports whether a path names an existing regular file.
	isFile func(path string) bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:     bufio.NewReader(in),
		out:    out,
		isFile: isRegularFile,
	}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", ErrInputClosed
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (p *Prompter) yes(question string) (bool, error) {
	answer, err := p.ask(question)
	if err != nil {
		return false, err
	}
	return strings.ToLower(answer) == "y", nil
}

// Complete fills cfg interactively. Every answer it asks for replaces the
// value that came from flags.
func (p *Prompter) Complete(cfg *Config) error {
	fmt.Fprintln(p.out, "\n--- Any2Any Image/Video Converter (Interactive Mode) ---")

	inputs, err := p.askInputs()
	if err != nil {
		return err
	}
	cfg.Inputs = inputs

	video, err := p.yes("Are these video files? [y/N]: ")
	if err != nil {
		return err
	}
	cfg.Video = video

	kind := KindImage
	if video {
		kind = KindVideo
	}
	format, err := p.askFormat(kind)
	if err != nil {
		return err
	}
	if video {
		cfg.VideoFormat, cfg.Format = format, ""
	} else {
		cfg.Format, cfg.VideoFormat = format, ""
	}

	outDir, err := p.ask(fmt.Sprintf("Output directory [%s]: ", cfg.OutputDir))
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.OutputDir = outDir
	}

	if !video {
		lossless, err := p.yes("Enable professional lossless mode? [y/N]: ")
		if err != nil {
			return err
		}
		cfg.Lossless = lossless
	}

	return nil
}

func (p *Prompter) askInputs() ([]string, error) {
	for {
		answer, err := p.ask("Enter file paths (comma-separated): ")
		if err != nil {
			return nil, err
		}

		inputs := splitPaths(answer)
		if len(inputs) == 0 {
			fmt.Fprintln(p.out, "Please enter at least one file.")
			continue
		}

		missing := false
		for _, path := range inputs {
			if !p.isFile(path) {
				missing = true
				break
			}
		}
		if missing {
			fmt.Fprintln(p.out, "One or more files do not exist. Please try again.")
			continue
		}

		return inputs, nil
	}
}

func (p *Prompter) askFormat(kind Kind) (string, error) {
	question := fmt.Sprintf("Choose output %s format %s: ", kind, quotedList(FormatNames(kind)))
	for {
		answer, err := p.ask(question)
		if err != nil {
			return "", err
		}

		if f, ok := LookupFormat(answer, kind); ok {
			return f.Name, nil
		}
		fmt.Fprintln(p.out, "Invalid format. Please try again.")
	}
}

// quotedList renders names as ['a', 'b'].
func quotedList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func splitPaths(s string) []string {
	var paths []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			paths = append(paths, part)
		}
	}
	return paths
}
