package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// renderOpts holds the flags shared by commands that read a borehole.
type renderOpts struct {
	output  string  // output base path; derived from the borehole ID when empty
	formats string  // comma-separated output formats
	id      string  // borehole to pick from a multi-borehole input
	preset  string  // built-in style
	style   string  // TOML style file
	header  string  // YAML header file
	legend  string  // CSV legend file
	span    float64 // page span override in metres
	dpi     float64 // PNG resolution override
	pages   []int   // restrict output to these pages
	noCache bool
	refresh bool
}

// bind registers the input flags on cmd.
func (o *renderOpts) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.id, "id", "", "borehole ID to select from a multi-borehole input")
	f.StringVarP(&o.preset, "preset", "p", "", "built-in style: "+strings.Join(presetList(), ", "))
	f.StringVarP(&o.style, "style", "s", "", "TOML style file (overrides --preset)")
	f.StringVar(&o.header, "header", "", "YAML file with header metadata")
	f.StringVarP(&o.legend, "legend", "l", "", "CSV legend mapping geology codes to colours and hatches")
	f.Float64Var(&o.span, "span", 0, "depth per page in metres (overrides the style)")
}

// pipelineOptions converts the flags to pipeline options for input.
func (o *renderOpts) pipelineOptions(input string) pipeline.Options {
	return pipeline.Options{
		Input:      input,
		ID:         o.id,
		HeaderPath: o.header,
		Preset:     o.preset,
		StylePath:  o.style,
		PageSpan:   o.span,
		LegendPath: o.legend,
		Formats:    parseFormats(o.formats),
		DPI:        o.dpi,
		Pages:      o.pages,
		Refresh:    o.refresh,
	}
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <input>",
		Short: "Render a borehole log to PNG, SVG, PDF or JSON",
		Long: `Render lays out one borehole as paged log sheets and writes them.

PNG and SVG produce one file per page ({base}_page{N}.{ext}); PDF and JSON
produce a single file ({base}.{ext}).`,
		Example: `  boreholelog render site.ags --id BH01 -f pdf
  boreholelog render BH07.csv --header header.yaml -l legend.csv -f png,svg --pages 1,2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.bind(cmd)
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output base path (default: borehole ID in the current directory)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	f.Float64Var(&opts.dpi, "dpi", 0, "PNG resolution (default from the style)")
	f.IntSliceVar(&opts.pages, "pages", nil, "render only these pages (comma-separated, 1-based)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	popts := opts.pipelineOptions(input)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+filepath.Base(input)+"...")
	spinner.Start()
	restore := trackProgress(spinner)
	res, err := runner.Execute(ctx, popts)
	restore()
	if res == nil && err != nil && !errors.Is(err, errors.ErrCodeNoData) {
		spinner.StopWithError(errors.UserMessage(err))
	} else {
		spinner.Stop()
	}

	if errors.Is(err, errors.ErrCodeNoData) {
		printWarning("%s has no intervals, nothing to render", filepath.Base(input))
		return nil
	}
	if res == nil || len(res.Artifacts) == 0 {
		if err == nil {
			return errors.New(errors.ErrCodeInternal, "no output produced")
		}
		if res == nil {
			return reported{err}
		}
		return err
	}

	base := basePath(opts.output, res.Borehole.ID)
	if verr := errors.ValidateFilenameBase(filepath.Base(base)); verr != nil {
		return verr
	}
	if dir := filepath.Dir(base); dir != "." {
		if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, mkErr, "create %s", dir)
		}
	}
	printSuccess("Rendered %s", StyleTitle.Render(res.Borehole.ID))
	for _, a := range res.Artifacts {
		path := a.FileName(base)
		if werr := os.WriteFile(path, a.Data, 0o644); werr != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, werr, "write %s", path)
		}
		printFile(path, a.Cached)
	}
	fmt.Println(statsLine(res.Stats, res.CacheInfo))
	prog.done("rendered", "borehole", res.Borehole.ID, "pages", res.PageCount)

	for _, pe := range res.PageErrors {
		printError("page %d: %s", pe.Page, errors.UserMessage(pe.Err))
	}
	if err != nil {
		return err
	}
	return errors.PagesFailed(res.PageErrors, res.PageCount)
}

// basePath derives the output base from the -o flag or the borehole ID.
// A known format extension on the flag value is stripped.
func basePath(output, id string) string {
	if output == "" {
		return id
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(strings.ToLower(ext), ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
