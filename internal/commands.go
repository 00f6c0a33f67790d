package internal

import (
	"dirpurge/internal/providers"
	"dirpurge/internal/structures"

	"github.com/spf13/cobra"
)

// AppFactory builds the App for one command from the global flags.
type AppFactory func(flags *structures.CliFlags) (*App, error)

func NewRootCommand(factory AppFactory) *cobra.Command {
	flags := &structures.CliFlags{}

	root := &cobra.Command{
		Use:          providers.AppName,
		Short:        "Delete files and directories and keep a ledger of every deletion.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.ConfigPath, "config", "", "config file (default ~/.purge/config.yaml)")
	root.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "enable debug logging")

	root.AddCommand(newPurgeCommand(factory, flags), newQueryCommand(factory, flags))
	return root
}

func newPurgeCommand(factory AppFactory, flags *structures.CliFlags) *cobra.Command {
	var (
		dir      string
		patterns []string
	)

	cmd := &cobra.Command{
		Use:   "purge EXT...",
		Short: "Delete files by extension and directories by name pattern.",
		Long: `
Delete the files directly inside --dir whose extension is one of EXT, then
recursively delete every directory inside --dir matching a --pattern glob.
Every file deletion attempt is written to the ledger and the summary of the
run is printed at the end.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(factory, flags, cmd, func(app *App) error {
				return app.Purge.Run(cmd.OutOrStdout(), dir, args, patterns)
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory to purge")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "glob of directory names to delete recursively (repeatable)")
	cmd.Flags().StringVar(&flags.LedgerPath, "db", "", "ledger path (default ~/.purge/db.json)")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

func newQueryCommand(factory AppFactory, flags *structures.CliFlags) *cobra.Command {
	var (
		latest     bool
		showErrors bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Summarize the deletion ledger.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(factory, flags, cmd, func(app *App) error {
				return app.Query.Run(cmd.OutOrStdout(), latest, showErrors)
			})
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "only the latest run of today")
	cmd.Flags().BoolVar(&showErrors, "errors", true, "report failed deletions")
	cmd.Flags().StringVar(&flags.LedgerPath, "db", "", "ledger path (default ~/.purge/db.json)")
	return cmd
}

func withApp(factory AppFactory, flags *structures.CliFlags, cmd *cobra.Command, run func(app *App) error) error {
	app, err := factory(flags)
	if err != nil {
		return err
	}

	app.Logger.Debugf(providers.GetLogTypeByCommand(cmd.Name()), "Running %s", cmd.CommandPath())
	runErr := run(app)
	if err := app.Close(); err != nil && runErr == nil {
		return err
	}
	return runErr
}
