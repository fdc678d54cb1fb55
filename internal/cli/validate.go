package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "validate <input>",
		Short: "Check input, style, header and legend files without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.layoutResult(cmd.Context(), args[0], &opts)
			if errors.Is(err, errors.ErrCodeNoData) {
				printWarning("%s: %s", filepath.Base(args[0]), errors.UserMessage(err))
				return nil
			}
			if err != nil {
				printError("%s: %s", filepath.Base(args[0]), errors.UserMessage(err))
				return reported{err}
			}
			printSuccess("%s is valid", filepath.Base(args[0]))
			printKeyValue("Borehole", res.Borehole.ID)
			printKeyValue("Intervals", fmt.Sprint(res.Stats.Intervals))
			printKeyValue("Depth", layout.FormatDepth(res.Stats.MaxDepth)+" m")
			printKeyValue("Style", res.Style.Name)
			printKeyValue("Pages", fmt.Sprint(res.PageCount))
			for _, pe := range res.PageErrors {
				printError("page %d: %s", pe.Page, errors.UserMessage(pe.Err))
			}
			return errors.PagesFailed(res.PageErrors, res.PageCount)
		},
	}

	opts.bind(cmd)
	return cmd
}
