package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for tilenav.

To load completions:

Bash:
  $ source <(tilenav completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ tilenav completion bash > /etc/bash_completion.d/tilenav
  # macOS:
  $ tilenav completion bash > $(brew --prefix)/etc/bash_completion.d/tilenav

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ tilenav completion zsh > "${fpath[1]}/_tilenav"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ tilenav completion fish | source

  # To load completions for each session, execute once:
  $ tilenav completion fish > ~/.config/fish/completions/tilenav.fish

PowerShell:
  PS> tilenav completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> tilenav completion powershell > tilenav.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}
