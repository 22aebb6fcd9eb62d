package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/fsrepo"
	"github.com/abdidvp/contentmod/internal/adapters/outbound/sqlrepo"
	"github.com/abdidvp/contentmod/internal/domain"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		from string
		dsn  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a filesystem content tree into a SQLite repository",
		Long: "Read every node below --from (a directory tree of .content.yaml files) and write it " +
			"to the SQLite database given by --dsn, or by dsn in .contentmod.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dsn == "" {
				cfg, err := a.loadConfig()
				if err != nil {
					return err
				}
				if cfg.Backend != domain.BackendSQLite {
					return fmt.Errorf("--dsn is required unless backend is sqlite")
				}
				dsn = cfg.DSN
			}

			src, err := filepath.Abs(from)
			if err != nil {
				return fmt.Errorf("resolving --from: %w", err)
			}

			repo, err := sqlrepo.Open(dsn, a.logger)
			if err != nil {
				return err
			}
			defer repo.Close()

			n, err := repo.Import(cmd.Context(), fsrepo.New(src))
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d nodes into %s\n", n, dsn)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Root of the filesystem content tree")
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQLite database file")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
