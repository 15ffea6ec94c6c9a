// Package cli wires the application behind a cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blogem/object-log/config"
	"github.com/blogem/object-log/logging"
)

// GlobalOptions are shared by every command
type GlobalOptions struct {
	CfgFilePath string

	Logger *logrus.Logger
	Conf   *config.Config
}

// NewRootCMD builds the command tree. Without a subcommand the server is started.
func NewRootCMD() *cobra.Command {
	globalOptions := &GlobalOptions{}

	rootCMD := &cobra.Command{
		Use:           "object-log",
		Short:         "Object Log",
		Long:          "An audit log of user actions with a server-rendered web interface.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return globalOptions.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), globalOptions)
		},
	}

	// register global flags
	globalOptions.registerFlags(rootCMD)

	// add subcommands
	rootCMD.AddCommand(NewServeCommand(globalOptions))
	rootCMD.AddCommand(NewMigrateCommand(globalOptions))
	rootCMD.AddCommand(NewContentTypesCommand(globalOptions))

	return rootCMD
}

func (options *GlobalOptions) registerFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&options.CfgFilePath, "config", "", "Path to a configuration file. (Env: OBJECT_LOG_CONFIG)")
	flags.String("log_level", "info", "Logging level (debug, info, warn, error). (Env: OBJECT_LOG_LOG_LEVEL)")
	flags.String("db_path", "object_log.db", "Path to the sqlite database. (Env: OBJECT_LOG_DB_PATH)")
	flags.Int("port", 8080, "Port for the HTTP server. (Env: OBJECT_LOG_PORT)")
	flags.Bool("use_https", false, "Mark session cookies secure. (Env: OBJECT_LOG_USE_HTTPS)")
	flags.Bool("user_logs_desc", true, "List a user's actions newest first. (Env: OBJECT_LOG_USER_LOGS_DESC)")
}

// load reads the configuration and creates the logger
func (options *GlobalOptions) load(cmd *cobra.Command) error {
	path := options.CfgFilePath
	if path == "" {
		path = os.Getenv(config.EnvPrefix + "_CONFIG")
	}

	conf, err := config.Load(path, cmd.Flags())
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	options.Conf = conf
	options.Logger = logging.NewLogger(conf.LogLevel)
	return nil
}

// Execute runs the command tree with os.Args
func Execute() {
	rootCmd := NewRootCMD()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
