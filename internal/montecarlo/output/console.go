// Package output renders estimation results for the console and as JSON.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/wesleyorama2/montepi/internal/montecarlo/config"
	"github.com/wesleyorama2/montepi/internal/montecarlo/engine"
	"github.com/wesleyorama2/montepi/internal/montecarlo/golden"
	"github.com/wesleyorama2/montepi/internal/montecarlo/strategy"
)

// Console prints run progress and results.
type Console struct {
	writer  io.Writer
	colors  *ColorScheme
	quiet   bool
	verbose bool
}

// ConsoleConfig contains configuration for Console.
type ConsoleConfig struct {
	Writer      io.Writer
	NoColor     bool
	ForceColors bool
	Quiet       bool
	Verbose     bool
}

// NewConsole creates a console printer.
//
// Colors are used only when the writer is a terminal, NO_COLOR is unset and
// NoColor is false, unless ForceColors is set.
func NewConsole(cfg ConsoleConfig) *Console {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	useColors := cfg.ForceColors || (!cfg.NoColor && isTerminal(cfg.Writer) && supportsColors())
	colors := NoColorScheme()
	if useColors {
		colors = ForcedColorScheme()
	}

	return &Console{
		writer:  cfg.Writer,
		colors:  colors,
		quiet:   cfg.Quiet,
		verbose: cfg.Verbose,
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return checkIsTerminal(f)
	}
	return false
}

// supportsColors checks the environment for color preferences.
func supportsColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "dumb"
}

// PrintHeader prints the run parameters.
func (c *Console) PrintHeader(cfg *config.Config, cpus int) {
	if c.quiet {
		return
	}
	c.writeln(c.colors.Title.Sprint(cfg.Name))
	c.writeln(c.colors.Dim.Sprintf("NUMPOINTS=%s RADIUS=%s SEED=%d SPINWAITS=%s CPUS=%d",
		formatNumber(int64(cfg.NumPoints)), formatNumber(int64(cfg.Radius)),
		cfg.GetSeed(), formatNumber(int64(cfg.GetSpinWaits())), cpus))
	c.writeln("")
}

// PrintStart announces a strategy before it runs.
func (c *Console) PrintStart(cfg *strategy.Config) {
	if c.quiet {
		return
	}
	desc := strategy.GetStrategyDescription(cfg.Type)
	if desc == nil {
		return
	}
	c.writeln(c.colors.Title.Sprintf("%s", desc.Name) + c.colors.Dim.Sprintf(" (generator=%s, remainder=%s)",
		cfg.EffectiveGenerator(), cfg.EffectiveRemainder()))
	if c.verbose {
		c.writeln(c.colors.Dim.Sprint("  " + desc.Description))
	}
}

// PrintResult prints the outcome of one strategy.
func (c *Console) PrintResult(r *engine.Result) {
	if c.quiet {
		c.writeln(fmt.Sprintf("%s %.6f", r.Strategy, r.Pi))
		return
	}

	name := string(r.Strategy)
	if desc := strategy.GetStrategyDescription(r.Strategy); desc != nil {
		name = desc.Name
	}

	c.writeln(fmt.Sprintf("%s complete: %s %s", name,
		c.colors.Label.Sprint("Duration:"), c.colors.Value.Sprint(formatMillis(r.Duration))))
	c.writeln(fmt.Sprintf("Samples recorded: %s. Samples within circle: %s",
		c.colors.Value.Sprint(formatNumber(int64(r.Recorded))),
		c.colors.Value.Sprint(formatNumber(int64(r.Inside)))))
	if r.Recorded != r.NumPoints {
		c.writeln(c.colors.Warn.Sprintf("  %s of %s configured samples were not recorded",
			formatNumber(int64(r.NumPoints-r.Recorded)), formatNumber(int64(r.NumPoints))))
	}
	c.writeln(fmt.Sprintf("PI = %s %s", c.colors.Estimate.Sprint(r.Pi),
		c.colors.Dim.Sprintf("(error %.6f)", r.Deviation)))

	if c.verbose {
		c.printMetrics(r)
	}
	c.writeln("")
}

func (c *Console) printMetrics(r *engine.Result) {
	c.writeln(fmt.Sprintf("  %s %d", c.colors.Label.Sprint("workers:"), r.Workers))
	if r.Stats != nil && r.Stats.Blocks > 0 {
		c.writeln(fmt.Sprintf("  %s %d x %d", c.colors.Label.Sprint("blocks:"), r.Stats.Blocks, r.Stats.Grain))
	}
	m := r.Metrics
	if m == nil {
		return
	}
	if m.LockWait.Count > 0 {
		c.writeln(fmt.Sprintf("  %s p50=%s p99=%s max=%s total=%s", c.colors.Label.Sprint("lock wait:"),
			formatDurationShort(m.LockWait.P50), formatDurationShort(m.LockWait.P99),
			formatDurationShort(m.LockWait.Max), formatDurationShort(m.TotalWait)))
	}
	if m.WorkerBusy.Count > 0 {
		c.writeln(fmt.Sprintf("  %s min=%s mean=%s max=%s", c.colors.Label.Sprint("worker busy:"),
			formatDurationShort(m.WorkerBusy.Min), formatDurationShort(m.WorkerBusy.Mean),
			formatDurationShort(m.WorkerBusy.Max)))
	}
}

// PrintError prints a strategy failure.
func (c *Console) PrintError(err error) {
	c.writeln(c.colors.Error.Sprint("Error: ") + err.Error())
}

// PrintSummary prints a comparison table of every result.
func (c *Console) PrintSummary(report *engine.Report) {
	if c.quiet || len(report.Results) == 0 {
		return
	}

	var base *engine.Result
	if base = report.Result(strategy.TypeSerial); base == nil {
		base = report.Results[0]
	}

	c.writeln(c.colors.Title.Sprintf("Summary (run %s)", report.ID))
	tw := tabwriter.NewWriter(c.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tDURATION\tRECORDED\tINSIDE\tPI\tERROR\tSPEEDUP")
	for _, r := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.6f\t%.6f\t%.2fx\n",
			r.Strategy, formatMillis(r.Duration), formatNumber(int64(r.Recorded)),
			formatNumber(int64(r.Inside)), r.Pi, r.Deviation, speedup(base.Duration, r.Duration))
	}
	tw.Flush()

	for _, e := range report.Errors {
		c.writeln(c.colors.Error.Sprint("failed: ") + e)
	}
}

// PrintGolden prints the golden file comparison.
func (c *Console) PrintGolden(outcomes []golden.Outcome) {
	for _, o := range outcomes {
		var status string
		switch o.Status {
		case golden.StatusMatch:
			status = c.colors.Good.Sprint("ok")
		case golden.StatusMismatch:
			status = c.colors.Error.Sprintf("FAIL (expected %d, got %d)", o.Expected, o.Actual)
		case golden.StatusMissing:
			status = c.colors.Warn.Sprint("no golden value")
		default:
			status = c.colors.Dim.Sprint("skipped (nondeterministic)")
		}
		c.writeln(fmt.Sprintf("golden %s: %s", o.Key, status))
	}
}

func (c *Console) writeln(s string) {
	fmt.Fprintln(c.writer, strings.TrimRight(s, "\n"))
}
