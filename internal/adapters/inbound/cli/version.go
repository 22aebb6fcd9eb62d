package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	goVersion "go.hein.dev/go-version"
)

func newVersionCmd() *cobra.Command {
	var (
		shortened bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show contentmod version and build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), goVersion.FuncWithOutput(shortened, version, commit, date, output))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&shortened, "short", "s", false, "Print just the version number.")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format. One of 'yaml' or 'json'.")

	return cmd
}
