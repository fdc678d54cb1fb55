package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// descWidth caps descriptions in segment tables.
const descWidth = 48

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		opts renderOpts
		page int
		tui  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <input>",
		Short: "Show the page plan and the segments on each page",
		Long: `Inspect lays out a borehole without rendering and prints the depth
window of every page. With --page it lists the clipped segments of one
page; with --tui it opens an interactive page browser.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.layoutResult(cmd.Context(), args[0], &opts)
			if err != nil {
				return err
			}
			switch {
			case tui:
				_, err := tea.NewProgram(newPageBrowser(res), tea.WithAltScreen()).Run()
				return err
			case page > 0:
				p := findPage(res.Pages, page)
				if p == nil {
					return errors.New(errors.ErrCodeNotFound, "page %d out of range (1-%d)", page, res.PageCount)
				}
				fmt.Println(StyleTitle.Render(fmt.Sprintf("%s page %d of %d", res.Borehole.ID, p.Spec.Number, p.Count)))
				fmt.Println(segmentTable(p).Render())
			default:
				fmt.Println(StyleTitle.Render(res.Borehole.ID))
				fmt.Println(pageTable(res.Pages).Render())
				fmt.Println(statsLine(res.Stats, res.CacheInfo))
			}
			for _, pe := range res.PageErrors {
				printError("page %d: %v", pe.Page, pe.Err)
			}
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "list the segments of this page")
	cmd.Flags().BoolVar(&tui, "tui", false, "browse pages interactively")

	return cmd
}

// layoutResult ingests input and lays out every page.
func (c *CLI) layoutResult(ctx context.Context, input string, opts *renderOpts) (*pipeline.Result, error) {
	runner := pipeline.NewRunner(nil, nil, c.Logger)
	popts := opts.pipelineOptions(input)
	popts.Formats = nil
	return runner.Layout(ctx, popts)
}

func findPage(pages []*layout.Page, n int) *layout.Page {
	for _, p := range pages {
		if p.Spec.Number == n {
			return p
		}
	}
	return nil
}

// pageTable lists the depth window and segment count of every page.
func pageTable(pages []*layout.Page) *table.Table {
	t := newTable("Page", "Top (m)", "Bottom (m)", "Segments", "Ticks")
	for _, p := range pages {
		t.Row(
			fmt.Sprintf("%d/%d", p.Spec.Number, p.Count),
			layout.FormatDepth(p.Spec.Top),
			layout.FormatDepth(p.Spec.Bottom),
			fmt.Sprint(len(p.Segments)),
			fmt.Sprint(len(p.Ticks)),
		)
	}
	return t
}

// segmentTable lists the clipped segments of one page. Cut edges are
// marked with a tilde.
func segmentTable(p *layout.Page) *table.Table {
	t := newTable("#", "Code", "Top", "Base", "Description")
	for _, s := range p.Segments {
		top, base := layout.FormatDepth(s.Top), layout.FormatDepth(s.Bottom)
		if !s.TrueTop {
			top = "~" + top
		}
		if !s.TrueBottom {
			base = "~" + base
		}
		t.Row(fmt.Sprint(s.Source+1), s.Interval.Code, top, base, clip(s.Interval.Description, descWidth))
	}
	return t
}

// clip shortens s to n runes with a trailing ellipsis.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
