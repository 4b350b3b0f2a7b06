package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/wesleyorama2/montepi/internal/montecarlo/config"
	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
	"github.com/wesleyorama2/montepi/internal/montecarlo/golden"
	"github.com/wesleyorama2/montepi/internal/montecarlo/output"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

// exitInterrupted is the exit code after a second interrupt.
const exitInterrupted = 130

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the PI estimation with one or more strategies",
		Long: `Run the PI estimation.

Settings are resolved in order: defaults, the config file, MONTEPI_*
variables (from the environment or --env-file), then command line flags.

Examples:
  montepi run
  montepi run --points 1000000 --strategy serial,worker-pool
  montepi run --config montepi.yaml --generator per-worker --workers 8 --json
  montepi run --points 10000 --spin-waits 0 --golden testdata/golden.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runEstimate,
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Configuration file (.yaml, .yml or .json)")
	flags.String("env-file", "", "File with MONTEPI_* variables (default .env if present)")
	flags.StringSliceP("strategy", "s", nil, "Strategies to run: serial, worker-pool, structured-parallel")
	flags.IntP("points", "n", 0, "Number of samples (default 10000000)")
	flags.Int("radius", 0, "Circle radius and side of the sampling square (default 10000)")
	flags.Int64("seed", 0, "Random seed (default 269222)")
	flags.Int("spin-waits", 0, "Synthetic busy work per sample (default 1000)")
	flags.IntP("workers", "w", 0, "Worker count (default: worker multiplier x CPUs, or GOMAXPROCS)")
	flags.Int("worker-multiplier", 0, "Workers per logical CPU for the worker pool (default 2)")
	flags.Int("grain", 0, "Block size of the structured parallel loop (default automatic)")
	flags.String("generator", "", "Generator mode: shared or per-worker (default shared)")
	flags.String("remainder", "", "Remainder policy: truncate or last-worker (default truncate)")
	flags.Bool("json", false, "Print the report as JSON")
	flags.StringP("output", "o", "", "Write the JSON report to a file or directory")
	flags.String("golden", "", "Compare inside counts against a golden JSON file")
	flags.BoolP("quiet", "q", false, "Print only the estimates")
	flags.BoolP("verbose", "v", false, "Print worker and lock metrics")
	flags.Bool("no-color", false, "Disable colored output")

	return cmd
}

// runEstimate runs the configured strategies and reports the results.
func runEstimate(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	outputPath, _ := cmd.Flags().GetString("output")
	goldenPath, _ := cmd.Flags().GetString("golden")
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	var goldenDoc []byte
	if goldenPath != "" {
		if goldenDoc, err = golden.Load(goldenPath); err != nil {
			return err
		}
	}

	eng, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	consoleWriter := stdout
	if jsonOutput {
		// The JSON document owns stdout.
		consoleWriter = io.Discard
	}
	console := output.NewConsole(output.ConsoleConfig{
		Writer:  consoleWriter,
		NoColor: noColor,
		Quiet:   quiet,
		Verbose: verbose,
	})

	eng.OnStart = console.PrintStart
	eng.OnResult = console.PrintResult
	eng.OnError = func(t strategy.Type, err error) { console.PrintError(err) }

	ctx, stop := interruptContext(cmd.Context(), cmd.ErrOrStderr())
	defer stop()

	console.PrintHeader(eng.Config(), strategy.AvailableParallelism())
	report, runErr := eng.Run(ctx)
	console.PrintSummary(report)

	if jsonOutput {
		if err := output.WriteJSON(stdout, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if outputPath != "" {
		path, err := writeReportFile(outputPath, report)
		if err != nil {
			return err
		}
		if !jsonOutput && !quiet {
			fmt.Fprintf(stdout, "Report written to %s\n", path)
		}
	}

	if goldenDoc != nil {
		outcomes := golden.Check(goldenDoc, report)
		if !jsonOutput {
			console.PrintGolden(outcomes)
		}
		if golden.Failed(outcomes) {
			runErr = errors.Join(runErr, errors.New("golden check failed"))
		}
	}

	return runErr
}

// buildConfig resolves the run configuration from file, environment and flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := &config.Config{}
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
		cfg = loaded
	}

	envFile, _ := flags.GetString("env-file")
	if envFile == "" {
		if _, err := os.Stat(".env"); err == nil {
			envFile = ".env"
		}
	}
	if err := config.LoadEnv(cfg, envFile); err != nil {
		return nil, err
	}

	intFlags := map[string]*int{
		"points":            &cfg.NumPoints,
		"radius":            &cfg.Radius,
		"workers":           &cfg.Workers,
		"worker-multiplier": &cfg.WorkerMultiplier,
		"grain":             &cfg.Grain,
	}
	for name, dst := range intFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetInt(name)
		}
	}
	if flags.Changed("spin-waits") {
		v, _ := flags.GetInt("spin-waits")
		cfg.SpinWaits = config.IntPtr(v)
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		cfg.Seed = config.Int64Ptr(v)
	}
	if flags.Changed("generator") {
		cfg.Generator, _ = flags.GetString("generator")
	}
	if flags.Changed("remainder") {
		cfg.Remainder, _ = flags.GetString("remainder")
	}
	if flags.Changed("strategy") {
		cfg.Strategies, _ = flags.GetStringSlice("strategy")
	}

	if flags.Changed("points") && cfg.NumPoints <= 0 {
		return nil, fmt.Errorf("--points must be > 0")
	}
	if flags.Changed("radius") && cfg.Radius <= 0 {
		return nil, fmt.Errorf("--radius must be > 0")
	}

	return cfg, nil
}

// interruptContext cancels the run on the first interrupt. A second
// interrupt exits immediately through atexit so open report files are closed.
func interruptContext(parent context.Context, stderr io.Writer) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(stderr, "Interrupted, stopping after the current samples (press Ctrl+C again to exit)")
			cancel()
		case <-done:
			return
		}
		select {
		case <-sigCh:
			atexit.Exit(exitInterrupted)
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		close(done)
		cancel()
	}
}

// reportFile is a buffered report writer closed on return or at exit.
type reportFile struct {
	file *os.File
	w    *bufio.Writer
	once sync.Once
	err  error
}

func createReportFile(path string) (*reportFile, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report file: %w", err)
	}
	rf := &reportFile{file: f, w: bufio.NewWriter(f)}
	atexit.Register(func() { rf.Close() })
	return rf, nil
}

// Close flushes and closes the file once.
func (r *reportFile) Close() error {
	r.once.Do(func() {
		if err := r.w.Flush(); err != nil {
			r.err = err
		}
		if err := r.file.Close(); err != nil && r.err == nil {
			r.err = err
		}
	})
	return r.err
}

// writeReportFile writes the JSON report to path. A directory receives a
// file named after the report ID.
func writeReportFile(path string, report *engine.Report) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, "montepi_report_"+report.ID+".json")
	}

	rf, err := createReportFile(path)
	if err != nil {
		return "", err
	}
	if err := output.WriteJSON(rf.w, report); err != nil {
		rf.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := rf.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
