package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop(), loader: config.New()}

	cmd := &cobra.Command{
		Use:   "contentmod",
		Short: "Bulk find-and-replace for content repository properties",
		Long: "contentmod rewrites one string property on every node under a repository path, " +
			"replacing each occurrence of a substring and committing node by node.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&a.dir, "path", ".", "Working directory holding .contentmod.yaml")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newRunCmd(a))
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newMCPCmd(a))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newHistoryCmd(a))
	cmd.AddCommand(newImportCmd(a))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
