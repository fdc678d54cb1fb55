package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/errors"
	"github.com/matzehuels/boreholelog/pkg/layout"
)

func presetList() []string { return layout.PresetNames() }

// configCommand creates the config command for working with styles.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print, list or write log styles",
	}

	cmd.AddCommand(c.configListCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

func (c *CLI) configListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the built-in styles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := newTable("Preset", "Span (m)", "Labels", "Header", "Page (mm)")
			for _, name := range presetList() {
				cfg, err := layout.Preset(name)
				if err != nil {
					return err
				}
				span := layout.FormatDepth(cfg.PageSpan)
				if cfg.PageSpan == 0 {
					span = "fit"
				}
				t.Row(name, span, string(cfg.Labels), fmt.Sprint(cfg.Header),
					fmt.Sprintf("%.0f×%.0f", cfg.Page.Width, cfg.Page.Height))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:       "show [preset]",
		Short:     "Print a style as TOML",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: presetList(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadStyle(args, file)
			if err != nil {
				return err
			}
			return cfg.EncodeTOML(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&file, "style", "s", "", "resolve and print this style file instead")
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var (
		preset string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a style file to start customising from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errors.New(errors.ErrCodeInvalidPath, "%s exists (use --force to overwrite)", path)
			}
			cfg, err := layout.Preset(preset)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			fmt.Fprintf(&buf, "# Style for boreholelog. Keys omitted here fall back to the preset.\npreset = %q\n\n", cfg.Name)
			if err := cfg.EncodeTOML(&buf); err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
			}
			printSuccess("Wrote %s style to %s", cfg.Name, path)
			printDetail("Render with: boreholelog render <input> --style %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&preset, "preset", "p", layout.DefaultConfig().Name, "base preset")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// loadStyle resolves a style from a preset argument or a style file.
func loadStyle(args []string, file string) (layout.Config, error) {
	if file != "" {
		return layout.LoadConfig(file)
	}
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return layout.Preset(name)
}
