package cli

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boreholelog/pkg/pipeline"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for boreholelog.

To load completions:

Bash:
  $ source <(boreholelog completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ boreholelog completion bash > /etc/bash_completion.d/boreholelog
  # macOS:
  $ boreholelog completion bash > $(brew --prefix)/etc/bash_completion.d/boreholelog

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ boreholelog completion zsh > "${fpath[1]}/_boreholelog"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ boreholelog completion fish | source

  # To load completions for each session, execute once:
  $ boreholelog completion fish > ~/.config/fish/completions/boreholelog.fish

PowerShell:
  PS> boreholelog completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> boreholelog completion powershell > boreholelog.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// registerCompletions adds value completion for the style and format flags
// a command defines.
func registerCompletions(cmd *cobra.Command) {
	fixed := func(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return values, cobra.ShellCompDirectiveNoFileComp
		}
	}
	if cmd.Flags().Lookup("preset") != nil {
		_ = cmd.RegisterFlagCompletionFunc("preset", fixed(presetList()))
	}
	if cmd.Flags().Lookup("format") != nil {
		formats := make([]string, 0, len(pipeline.ValidFormats))
		for f := range pipeline.ValidFormats {
			formats = append(formats, f)
		}
		sort.Strings(formats)
		_ = cmd.RegisterFlagCompletionFunc("format", fixed(formats))
	}
	if cmd.Flags().Lookup("style") != nil {
		_ = cmd.MarkFlagFilename("style", "toml")
	}
	if cmd.Flags().Lookup("header") != nil {
		_ = cmd.MarkFlagFilename("header", "yaml", "yml")
	}
	if cmd.Flags().Lookup("legend") != nil {
		_ = cmd.MarkFlagFilename("legend", "csv")
	}
}
