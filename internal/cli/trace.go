package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/config"
	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/linegraph"
	"github.com/matzehuels/linegraph/pkg/pipeline"
	"github.com/matzehuels/linegraph/pkg/trace"
)

const (
	traceFormatDOT = "dot"
	traceFormatSVG = "svg"
)

type traceOpts struct {
	output string // file path; empty writes to stdout
	format string
	full   bool // force a full redraw of the traced frame
	frames int
}

// traceCommand creates the trace command, which records the compositing
// operations of a script's last frame.
func (c *CLI) traceCommand() *cobra.Command {
	opts := traceOpts{format: traceFormatSVG}

	cmd := &cobra.Command{
		Use:   "trace [script.toml]",
		Short: "Write the compositing trace of a script's last frame",
		Long: `Play a script and record the surface operations of its last frame:
clears, copies between surfaces, layer draws, moving-buffer shifts and the
final presentation. The trace is written as a Graphviz diagram.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format != traceFormatDOT && opts.format != traceFormatSVG {
				return fmt.Errorf("invalid format: %s (must be 'dot' or 'svg')", opts.format)
			}
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runTrace(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.full, "full", false, "force a full redraw of the traced frame")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "number of frames (overrides the script)")

	return cmd
}

func (c *CLI) runTrace(ctx context.Context, scriptPath string, opts *traceOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	script, err := loadScript(scriptPath, 0, 0, opts.frames)
	if err != nil {
		return err
	}

	ops, err := traceLastFrame(cfg, script, opts.full, c.Logger)
	if err != nil {
		return err
	}
	if len(ops) == 0 {
		printWarning("The last frame was not redrawn; use --full to trace a full redraw")
	}
	c.Logger.Debug("trace recorded", "ops", len(ops))

	dot := trace.ToDOT(ops)
	data := []byte(dot)
	if opts.format == traceFormatSVG {
		if data, err = trace.RenderSVG(ctx, dot); err != nil {
			return err
		}
	}

	var out io.Writer = os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(data); err != nil {
		return err
	}
	if opts.output != "" {
		printSuccess("Traced %d operations", len(ops))
		printFile(opts.output)
	}
	return nil
}

// traceLastFrame plays script and returns the operations recorded while
// its last frame was drawn.
func traceLastFrame(cfg *config.Config, script *host.Script, full bool, logger *log.Logger) ([]trace.Op, error) {
	script.SetDefaults(cfg.Graph.Width, cfg.Graph.Height)
	if full {
		script.Events = append(script.Events, host.Event{Frame: script.Frames - 1, Kind: "force"})
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	rec := trace.New()
	player, _, err := pipeline.Build(cfg, linegraph.WithTrace(rec), linegraph.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	player.Logger = logger

	rec.Reset()
	for i := range player.Play(script) {
		if i == script.Frames-2 {
			rec.Reset()
		}
	}
	if err := player.Err(); err != nil {
		return nil, err
	}
	return rec.Ops(), nil
}
