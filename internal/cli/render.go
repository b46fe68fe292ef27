package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/linegraph/pkg/host"
	"github.com/matzehuels/linegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // output directory
	format  string // png or jpg
	scale   float64
	quality int
	workers int
	frames  int // overrides the script frame count
	width   int // overrides the script size
	height  int
	refresh bool
	cache   cacheOpts
}

// renderCommand creates the render command for exporting frames of a script.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		output: "frames",
		format: pipeline.FormatPNG,
		scale:  1,
	}

	cmd := &cobra.Command{
		Use:   "render [script.toml]",
		Short: "Play a script headlessly and write its frames",
		Long: `Play a script headlessly and write one image per frame.

Without a script a single frame of the configured graph is rendered. Frames
are cached by script content, configuration and output options; a rerun of
an unchanged script is served from the cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return c.runRender(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "image format: png, jpg")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "output scale factor")
	cmd.Flags().IntVar(&opts.quality, "quality", pipeline.DefaultQuality, "JPEG quality (1-100)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "parallel encoders (default: GOMAXPROCS)")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "number of frames (overrides the script)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "graph width (overrides the script)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "graph height (overrides the script)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached frames")
	cmd.Flags().BoolVar(&opts.cache.noCache, "no-cache", false, "disable the frame cache")
	cmd.Flags().StringVar(&opts.cache.redis, "redis", "", "use the Redis frame cache at this address")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, scriptPath string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	script, err := loadScript(scriptPath, opts.width, opts.height, opts.frames)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.cache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d frames...", script.Frames))
	spinner.Start()
	result, err := runner.Export(ctx, pipeline.Options{
		Config:  cfg,
		Script:  script,
		Format:  opts.format,
		Scale:   opts.scale,
		Quality: opts.quality,
		Workers: opts.workers,
		Refresh: opts.refresh,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	paths, err := writeFrames(opts.output, opts.format, result.Frames)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d frames", len(paths)))

	printSuccess("Wrote %d frames", len(paths))
	fmt.Println(frameStats(len(result.Frames), result.Stats.Draws, result.Cached))
	printFile(filepath.Join(opts.output, framePattern(opts.format)))
	return nil
}

// loadScript reads the script at path, or returns an empty script, and
// applies the size and length overrides.
func loadScript(path string, width, height, frames int) (*host.Script, error) {
	script := &host.Script{}
	if path != "" {
		s, err := host.LoadScript(path)
		if err != nil {
			return nil, err
		}
		script = s
	}
	if width > 0 && height > 0 {
		script.Width, script.Height = width, height
	}
	if frames > 0 {
		script.Frames = frames
	}
	return script, nil
}

func framePattern(format string) string {
	return "frame_%04d" + pipeline.Extension(format)
}

// writeFrames writes frames to dir as frame_0001.<ext>, frame_0002.<ext>, ...
func writeFrames(dir, format string, frames [][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	paths := make([]string, len(frames))
	for i, data := range frames {
		paths[i] = filepath.Join(dir, fmt.Sprintf(framePattern(format), i+1))
		if err := os.WriteFile(paths[i], data, 0o644); err != nil {
			return nil, fmt.Errorf("write frame %d: %w", i+1, err)
		}
	}
	return paths, nil
}
