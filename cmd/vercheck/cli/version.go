package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anchore/vercheck/internal/version"
	"github.com/anchore/vercheck/vercheck/checker"
)

var versionOutputFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "show the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printVersion(os.Stdout, versionOutputFormat)
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionOutputFormat, "output", "o", "text", "format to show version information (available=[text, json])")

	rootCmd.AddCommand(versionCmd)
}

func printVersion(out io.Writer, outputFormat string) error {
	versionInfo := version.FromBuild()
	builtins := len(checker.DefaultRegistry().Names())

	switch outputFormat {
	case "text":
		fmt.Fprintln(out, "Application:       ", versionInfo.Application)
		fmt.Fprintln(out, "Version:           ", versionInfo.Version)
		fmt.Fprintln(out, "BuildDate:         ", versionInfo.BuildDate)
		fmt.Fprintln(out, "GitCommit:         ", versionInfo.GitCommit)
		fmt.Fprintln(out, "GitTreeState:      ", versionInfo.GitTreeState)
		fmt.Fprintln(out, "Platform:          ", versionInfo.Platform)
		fmt.Fprintln(out, "GoVersion:         ", versionInfo.GoVersion)
		fmt.Fprintln(out, "Compiler:          ", versionInfo.Compiler)
		fmt.Fprintln(out, "Built-in Checkers: ", builtins)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", " ")
		err := enc.Encode(&struct {
			version.Version
			BuiltinCheckers int `json:"builtinCheckers"`
		}{
			Version:         versionInfo,
			BuiltinCheckers: builtins,
		})
		if err != nil {
			return fmt.Errorf("failed to show version information: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
	return nil
}
