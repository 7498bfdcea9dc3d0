package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"any2any/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultOutputDir = "converted"

var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

type Config struct {
	Inputs      []string
	OutputDir   string
	Format      string
	VideoFormat string
	Lossless    bool
	Video       bool
	Interactive bool
	FailOnError bool
}

// Target returns the format every job of this batch converts to.
func (cfg *Config) Target() (Format, bool) {
	if cfg.Video {
		return LookupFormat(cfg.VideoFormat, KindVideo)
	}
	return LookupFormat(cfg.Format, KindImage)
}

func (cfg *Config) Jobs() []Job {
	target, _ := cfg.Target()

	jobs := make([]Job, 0, len(cfg.Inputs))
	for _, input := range cfg.Inputs {
		jobs = append(jobs, Job{
			Input:    input,
			Output:   OutputPath(cfg.OutputDir, input, target.Name),
			Format:   target,
			Lossless: cfg.Lossless && target.Kind == KindImage,
		})
	}
	return jobs
}

// needsPrompt mirrors when the command line alone cannot describe a batch.
func (cfg *Config) needsPrompt() bool {
	if cfg.Interactive || len(cfg.Inputs) == 0 {
		return true
	}
	_, ok := cfg.Target()
	return !ok
}

func (cfg *Config) validate() error {
	if cfg.Format != "" && cfg.VideoFormat != "" {
		return fmt.Errorf("--format and --video-format cannot be used together")
	}
	if cfg.Format != "" {
		if _, ok := LookupFormat(cfg.Format, KindImage); !ok {
			return fmt.Errorf("invalid format %q (choose from %s)", cfg.Format, strings.Join(FormatNames(KindImage), ", "))
		}
		if cfg.Video {
			return fmt.Errorf("--format selects an image format; use --video-format with --video")
		}
	}
	if cfg.VideoFormat != "" {
		if _, ok := LookupFormat(cfg.VideoFormat, KindVideo); !ok {
			return fmt.Errorf("invalid video format %q (choose from %s)", cfg.VideoFormat, strings.Join(FormatNames(KindVideo), ", "))
		}
	}
	return nil
}

type app struct {
	in  io.Reader
	out io.Writer
	// errOut takes the progress bar, table and box in --log-json
	// mode so out carries nothing but JSON lines.
	errOut   io.Writer
	v        *viper.Viper
	rand     IntNSource
	exitCode int
}

func newRootCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "any2any [flags] [input...]",
		Short: "Any-to-any image/video converter (100% local)",
		Long: `any2any converts images, or videos with --video, into another format.
Converted files are written to the output directory as <name>.<format>.
Run without inputs or without a target format to be asked interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runE(args)
		},
	}

	flags := cmd.Flags()
	flags.Bool("interactive", false, "Run in interactive mode")
	flags.StringP("output-dir", "o", defaultOutputDir, "Output directory")
	flags.StringP("format", "f", "", "Output image format ("+strings.Join(FormatNames(KindImage), ", ")+")")
	flags.Bool("lossless", false, "Enable professional lossless mode (recommended for high-res photography); "+
		"lossless for "+strings.Join(LosslessFormatNames(), ", ")+", maximum quality for lossy formats")
	flags.Bool("video", false, "Convert video files instead of images")
	flags.String("video-format", "", "Output video format ("+strings.Join(FormatNames(KindVideo), ", ")+")")
	flags.String("config", "", "Config file with defaults for these flags (yaml, toml or json)")
	flags.Bool("fail-on-error", false, "Exit with status 1 when any file fails to convert")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Show debug output")
	flags.Bool("log-json", false, "Write log lines as JSON")
	flags.Bool("version", false, "Show version information")

	// Flags that were set explicitly win over the config file, which wins
	// over flag defaults. Environment variables are never read.
	_ = a.v.BindPFlags(flags)

	return cmd
}

func (a *app) newConsole() *logger.Console {
	opts := logger.DefaultOptions()
	opts.Output = a.out
	opts.EnableColors = !a.v.GetBool("no-color")
	opts.EnableJSON = a.v.GetBool("log-json")
	if opts.EnableJSON && a.errOut != nil {
		opts.AuxOutput = a.errOut
	}
	if a.v.GetBool("verbose") {
		opts.Level = slog.LevelDebug
		opts.ShowTime = true
	}
	return logger.NewConsole(opts)
}

func (a *app) runE(args []string) error {
	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	console := a.newConsole()

	if a.v.GetBool("version") {
		versionInfo := fmt.Sprintf(
			"Version: %s\nBuild date: %s\nGit commit: %s",
			Version, BuildDate, GitCommit,
		)
		console.Box("any2any version information", versionInfo)
		return nil
	}

	cfg, err := a.resolve(args)
	if err != nil {
		return err
	}

	dispatcher := NewDispatcher(console, a.rand)
	dispatcher.Spinner = !a.v.GetBool("log-json")

	report := dispatcher.Run(cfg)
	if cfg.FailOnError && report.Failed() > 0 {
		console.Warn("%d of %d files failed to convert", report.Failed(), len(report.Outcomes))
		a.exitCode = 1
	}

	return nil
}

// resolve builds the batch Config from flags, prompting for anything missing,
// and creates the output directory. Input paths given on the command line are
// not checked here; a missing file fails when its job runs.
func (a *app) resolve(args []string) (*Config, error) {
	cfg := &Config{
		Inputs:      args,
		OutputDir:   a.v.GetString("output-dir"),
		Format:      strings.ToLower(a.v.GetString("format")),
		VideoFormat: strings.ToLower(a.v.GetString("video-format")),
		Lossless:    a.v.GetBool("lossless"),
		Interactive: a.v.GetBool("interactive"),
		FailOnError: a.v.GetBool("fail-on-error"),
	}
	cfg.Video = a.v.GetBool("video") || cfg.VideoFormat != ""
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.needsPrompt() {
		if err := NewPrompter(a.in, a.out).Complete(cfg); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return cfg, nil
}
