package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"any2any/logger"
)

// Job is one input-to-output conversion attempt.
type Job struct {
	Input    string
	Output   string
	Format   Format
	Lossless bool
}

// Outcome is the result of a Job. A nil Err means the output was written.
type Outcome struct {
	Job        Job
	Err        error
	InputSize  int64
	OutputSize int64
}

func (o Outcome) Failed() bool {
	return o.Err != nil
}

// OutputPath places <base name without extension>.<format> under dir.
func OutputPath(dir, input, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return filepath.Join(dir, stem+"."+format)
}

// Converter performs a single conversion and reports the result as a value.
type Converter interface {
	Convert(job Job) Outcome
}

type Report struct {
	OutputDir string
	Outcomes  []Outcome
}

func (r Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Failed() {
			n++
		}
	}
	return n
}

func (r Report) Succeeded() int {
	return len(r.Outcomes) - r.Failed()
}

// Dispatcher runs a batch sequentially. A failing job never stops the batch.
type Dispatcher struct {
	Console *logger.Console
	Images  Converter
	Videos  Converter
	Rand    IntNSource
	// Spinner animates while a video encodes.
	Spinner bool
}

func NewDispatcher(console *logger.Console, src IntNSource) *Dispatcher {
	return &Dispatcher{
		Console: console,
		Images:  ImageConverter{},
		Videos:  VideoConverter{},
		Rand:    src,
		Spinner: true,
	}
}

func (d *Dispatcher) Run(cfg *Config) Report {
	jobs := cfg.Jobs()
	report := Report{OutputDir: cfg.OutputDir, Outcomes: make([]Outcome, 0, len(jobs))}

	noun, label := "images", "Converting images"
	if cfg.Video {
		noun, label = "videos", "Converting videos"
	} else {
		if cfg.Lossless {
			d.Console.Info("Professional Lossless Mode is ENABLED (recommended for high-res photography!)")
		} else {
			d.Console.Info("Professional Lossless Mode is disabled (for smaller files)")
		}
	}

	timer := d.Console.StartTimer("Batch conversion")
	bar := d.Console.NewProgressBar(int64(len(jobs)), label)

	for _, job := range jobs {
		bar.Clear()
		d.Console.Log("%s", PickMessage(d.Rand))
		d.Console.Debug("converting %s -> %s", job.Input, job.Output)

		outcome := d.convert(job)
		report.Outcomes = append(report.Outcomes, outcome)

		bar.Clear()
		bar.Increment(1)
	}

	bar.Complete()
	timer.End()

	d.displayResults(report)
	d.Console.Success("All done! Your %s are in: %s", noun, cfg.OutputDir)

	return report
}

func (d *Dispatcher) convert(job Job) Outcome {
	if job.Format.Kind == KindVideo {
		return d.convertVideo(job)
	}

	outcome := d.Images.Convert(job)
	if outcome.Failed() {
		d.Console.Error("%s", failureMessage(outcome))
	}
	return outcome
}

func (d *Dispatcher) convertVideo(job Job) Outcome {
	if !d.Spinner {
		outcome := d.Videos.Convert(job)
		if outcome.Failed() {
			d.Console.Error("%s", failureMessage(outcome))
		}
		return outcome
	}

	spinner := d.Console.StartSpinner("Encoding " + filepath.Base(job.Input))
	outcome := d.Videos.Convert(job)
	if outcome.Failed() {
		spinner.Stop(false, failureMessage(outcome))
	} else {
		spinner.Stop(true, fmt.Sprintf("Converted %s", job.Input))
	}
	return outcome
}

func failureMessage(o Outcome) string {
	return fmt.Sprintf("Failed to convert %s: %v", o.Job.Input, o.Err)
}

func (d *Dispatcher) displayResults(report Report) {
	var inputSize, outputSize int64
	for _, o := range report.Outcomes {
		if o.Failed() {
			continue
		}
		inputSize += o.InputSize
		outputSize += o.OutputSize
	}

	table := d.Console.NewTable([]string{"Metric", "Value"})
	table.AddRow("Processed files", fmt.Sprintf("%d/%d", report.Succeeded(), len(report.Outcomes)))
	table.AddRow("Failed files", fmt.Sprintf("%d", report.Failed()))
	table.AddRow("Input size", formatMB(inputSize))
	table.AddRow("Output size", formatMB(outputSize))
	if inputSize > 0 {
		table.AddRow("Size ratio", fmt.Sprintf("%.1f%%", float64(outputSize)/float64(inputSize)*100))
	}

	d.Console.Info("Conversion summary:")
	table.Print()
}

func formatMB(n int64) string {
	return fmt.Sprintf("%.2f MB", float64(n)/1024/1024)
}
