package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchore/vercheck/internal"
	"github.com/anchore/vercheck/internal/stringutil"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: fmt.Sprintf("Generate a shell completion for %s (completing known tool names)", internal.ApplicationName),
	Long: stringutil.Tprintf(`To load completions:

Bash:

$ source <({{.appName}} completion bash)

# To load completions for each session, execute once:
Linux:
  $ {{.appName}} completion bash > /etc/bash_completion.d/{{.appName}}
MacOS:
  $ {{.appName}} completion bash > /usr/local/etc/bash_completion.d/{{.appName}}

Zsh:

# To load completions for each session, execute once:
$ {{.appName}} completion zsh > "${fpath[1]}/_{{.appName}}"

Fish:

$ {{.appName}} completion fish | source
`, map[string]interface{}{
		"appName": internal.ApplicationName,
	}),
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletionV2(os.Stdout, true)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		default:
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		}
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
