package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/contentmod/internal/adapters/outbound/config"
	"github.com/abdidvp/contentmod/internal/domain"
)

func newInitCmd() *cobra.Command {
	var (
		backend string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .contentmod.yaml configuration file",
		Long:  "Create a .contentmod.yaml with defaults for the chosen backend.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dest := filepath.Join(absPath, config.FileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", config.FileName)
				}
			}

			bt := domain.BackendType(backend)
			valid := false
			for _, vb := range domain.ValidBackends {
				if bt == vb {
					valid = true
					break
				}
			}
			if !valid {
				return fmt.Errorf("unknown backend %q (valid: fs, sqlite)", backend)
			}

			if err := os.WriteFile(dest, []byte(generateConfig(bt)), 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "fs", "Content backend (fs, sqlite)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .contentmod.yaml")

	return cmd
}

func generateConfig(bt domain.BackendType) string {
	cfg := domain.DefaultConfig()

	var location string
	if bt == domain.BackendSQLite {
		location = "dsn: content.db\n"
	} else {
		location = fmt.Sprintf("root: %s\n", cfg.Root)
	}

	result := fmt.Sprintf("# contentmod configuration\n\nbackend: %s\n%s\nmax_results: %d\njournal: true\n\n",
		bt, location, cfg.MaxResults)

	if bt == domain.BackendFS {
		result += fmt.Sprintf(`# Commit every changed node to the enclosing git repository.
git:
  commit: false
  author_name: %s
  author_email: %s

`, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
	}

	result += fmt.Sprintf(`server:
  addr: "%s"
  # api_key: change-me

log:
  level: %s
  format: %s
`, cfg.Server.Addr, cfg.Log.Level, cfg.Log.Format)

	return result
}
