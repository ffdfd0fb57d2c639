package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arthur-debert/nanofire/nanofire"
	"github.com/arthur-debert/nanofire/nanofire/storage"
	"github.com/arthur-debert/nanofire/nanofire/storage/jsonfile"
	"github.com/arthur-debert/nanofire/nanofire/storage/sqlstore"
)

// Backends selectable with --backend
const (
	backendJSON   = "json"
	backendMemory = "memory"
)

var defaultPaths = map[string]string{
	backendJSON:           "nanofire.json",
	sqlstore.DriverSQLite: "nanofire.db",
}

// CLI wires the cobra command tree to a viper configuration
type CLI struct {
	rootCmd *cobra.Command
	v       *viper.Viper
	logger  *slog.Logger
	logFile io.Closer
}

// NewCLI creates the command tree with configuration read from flags,
// NANOFIRE_* environment variables and nanofire.yaml
func NewCLI() *CLI {
	cli := &CLI{
		v:      viper.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	cli.setupViperConfig()
	cli.createRootCommand()
	cli.addCommands()
	return cli
}

// Execute runs the command line in os.Args
func (cli *CLI) Execute() error {
	defer cli.closeLog()
	return cli.rootCmd.Execute()
}

// setupViperConfig configures environment variables and config file discovery
func (cli *CLI) setupViperConfig() {
	if configFile := os.Getenv("NANOFIRE_CONFIG"); configFile != "" {
		cli.v.SetConfigFile(configFile)
	} else {
		cli.v.SetConfigName("nanofire")
		cli.v.SetConfigType("yaml")
		cli.v.AddConfigPath(".")
		cli.v.AddConfigPath("$HOME/.nanofire")
	}

	cli.v.SetEnvPrefix("NANOFIRE")
	cli.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.v.AutomaticEnv()
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "nanofire",
		Short: "nanofire - collections of JSON documents over a key-value store",
		Long: `nanofire stores JSON documents in named collections and queries them
with where/orderBy/skip/limit pipelines.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (NANOFIRE_*)
3. Configuration file (NANOFIRE_CONFIG, ./nanofire.yaml, ~/.nanofire/nanofire.yaml)

Examples:
  nanofire set people mike '{"name":"Mike","age":39}'
  nanofire list people --where name:==:Mike --where 'age:>:18' --order age:desc
  nanofire --backend sqlite --path people.db collections
  nanofire delete people --where 'age:<:18'`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.v.ReadInConfig(); err != nil {
				var notFound viper.ConfigFileNotFoundError
				if !errors.As(err, &notFound) {
					return NewConfigError("read configuration", err.Error(), CommonSuggestions.CheckConfig)
				}
			}
			if err := cli.v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}

			logger, logFile, err := initLogging(cli.v.GetString("log-level"), cli.v.GetBool("verbose"), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cli.logger = logger
			cli.logFile = logFile
			return nil
		},
	}

	flags := cli.rootCmd.PersistentFlags()
	flags.StringP("backend", "b", backendJSON, "Storage backend (json|sqlite|pgx|postgres|memory)")
	flags.StringP("path", "p", "", "Data file for the json and sqlite backends")
	flags.String("dsn", "", "Connection string for the pgx and postgres backends")
	flags.String("table", sqlstore.DefaultTable, "Table for the SQL backends")
	flags.StringP("format", "f", formatTable, "Output format (table|json|yaml)")
	flags.BoolP("quiet", "q", false, "Suppress table headers")
	flags.String("log-level", "warn", "Log level for the log file (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Also write debug logs to stderr")
}

func (cli *CLI) closeLog() {
	if cli.logFile != nil {
		_ = cli.logFile.Close()
		cli.logFile = nil
	}
}

// printer returns the output printer for cmd
func (cli *CLI) printer(cmd *cobra.Command) (*printer, error) {
	return newPrinter(cmd.OutOrStdout(), cli.v.GetString("format"), cli.v.GetBool("quiet"))
}

// openAdapter builds the storage backend named by --backend
func (cli *CLI) openAdapter(ctx context.Context) (storage.Adapter, error) {
	backend := cli.v.GetString("backend")
	path := cli.v.GetString("path")
	if path == "" {
		path = defaultPaths[backend]
	}

	switch backend {
	case backendMemory:
		return storage.NewMemory(), nil

	case backendJSON:
		s, err := jsonfile.Open(path, jsonfile.WithLogger(cli.logger))
		if err != nil {
			return nil, err
		}
		return s, nil

	case sqlstore.DriverSQLite, sqlstore.DriverPGX, sqlstore.DriverPostgres:
		dsn := cli.v.GetString("dsn")
		if dsn == "" && backend == sqlstore.DriverSQLite {
			dsn = path
		}
		if dsn == "" {
			return nil, NewConfigError("open database", "--dsn is required for the "+backend+" backend",
				CommonSuggestions.CheckPath, CommonSuggestions.CheckConfig)
		}
		s, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver: backend,
			DSN:    dsn,
			Table:  cli.v.GetString("table"),
		}, sqlstore.WithLogger(cli.logger))
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	return nil, NewConfigError("open database", "unknown backend "+backend, CommonSuggestions.CheckBackend)
}

// withDB opens the configured database for the duration of fn
func (cli *CLI) withDB(cmd *cobra.Command, operation string, fn func(ctx context.Context, db *nanofire.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	adapter, err := cli.openAdapter(ctx)
	if err != nil {
		return WrapError(operation, err, CommonSuggestions.CheckBackend, CommonSuggestions.CheckPath)
	}
	db := nanofire.New(adapter, nanofire.WithLogger(cli.logger))
	defer func() {
		if err := db.Close(); err != nil {
			cli.logger.Warn("failed to close database", "error", err)
		}
	}()

	cli.logger.Debug("command started",
		"command", operation,
		"backend", cli.v.GetString("backend"))
	return fn(ctx, db)
}
