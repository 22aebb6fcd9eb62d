package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/report"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/tui"
	"github.com/abdidvp/contentmod/internal/domain"
)

// runFlags maps request parameter names to command flags.
var runFlags = map[string]string{
	domain.ParamBasePath:     "base-path",
	domain.ParamPropertyName: "property",
	domain.ParamOriginal:     "original",
	domain.ParamTarget:       "target",
}

func newRunCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		noSummary  bool
	)

	cmd := &cobra.Command{
		Use:     "run",
		Aliases: []string{"migrate"},
		Short:   "Replace a substring in one property of every node under a path",
		Long: "Find every node at or below --base-path whose --property starts with --original, " +
			"replace each occurrence of --original with --target and commit each node on its own.\n" +
			"--target is required but may be empty to delete the substring.",
		Example: `  contentmod run --base-path /content/site --property title --original "ACME" --target "Acme"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			flags := cmd.Flags()
			lookup := func(name string) (string, bool) {
				flag, ok := runFlags[name]
				if !ok || !flags.Changed(flag) {
					return "", false
				}
				v, err := flags.GetString(flag)
				return v, err == nil
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				sink := report.NewJSONSink(out)
				_, runErr := rt.runner.RunParams(ctx, lookup, sink)
				if runErr != nil {
					return fmt.Errorf("run aborted: %w", runErr)
				}
				return sink.Err()
			}

			sink := report.NewTextSink(out)
			rep, runErr := rt.runner.RunParams(ctx, lookup, sink)
			if !noSummary {
				fmt.Fprint(out, "\n"+tui.RenderSummary(rep))
			}
			if runErr != nil {
				return fmt.Errorf("run aborted: %w", runErr)
			}
			return sink.Err()
		},
	}

	cmd.Flags().String("base-path", "", "Repository path whose subtree is modified")
	cmd.Flags().String("property", "", "Name of the string property to rewrite")
	cmd.Flags().String("original", "", "Substring to replace (literal, case-sensitive)")
	cmd.Flags().String("target", "", "Replacement substring (may be empty)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Stream newline-delimited JSON events")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Omit the summary box after the text report")

	return cmd
}
