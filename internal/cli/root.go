package cli

import (
	"github.com/dmitrijs2005/gophjournal/internal/buildinfo"
	"github.com/dmitrijs2005/gophjournal/internal/config"
	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. cfg holds the defaults and JSON
// values; flags parsed by the returned command are written into it.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	var log logging.Logger

	open := func(cmd *cobra.Command) (*App, error) {
		return NewApp(cmd.Context(), cfg, log, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	root := &cobra.Command{
		Use:           "journal",
		Short:         "A private, local journal",
		Long:          "Runs an interactive journal shell over two SQLite files in the data directory.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Resolve(); err != nil {
				return err
			}
			l, err := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}
			log = l
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Run(cmd.Context())
		},
	}
	cfg.BindFlags(root.PersistentFlags())

	backupCmd := &cobra.Command{
		Use:   "backup [path]",
		Short: "Copy the entries database to path or to the backup directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.cmdBackup(cmd.Context(), args)
		},
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Upload a backup of the entries database to the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()
			return app.cmdExport(cmd.Context(), args)
		},
	}

	var username string
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics of one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := open(cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			password, err := app.askSecret("Password for " + username)
			if err != nil {
				return err
			}
			if !app.session.Login(cmd.Context(), username, password) {
				return errInvalidCredentials
			}
			return app.cmdStats(cmd.Context(), args)
		},
	}
	statsCmd.Flags().StringVarP(&username, "username", "u", "", "account to report on")
	_ = statsCmd.MarkFlagRequired("username")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}

	root.AddCommand(backupCmd, exportCmd, statsCmd, versionCmd)
	return root
}
