/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/josephgoksu/pkghistory/internal/config"
	"github.com/josephgoksu/pkghistory/internal/executor"
	"github.com/josephgoksu/pkghistory/internal/history"
	"github.com/josephgoksu/pkghistory/internal/identity"
	"github.com/josephgoksu/pkghistory/internal/logger"
	"github.com/josephgoksu/pkghistory/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// version is the application version.
	version = "0.1.0"
)

// Collaborators used to build the history service. Tests replace them.
var (
	appFs       afero.Fs         = afero.NewOsFs()
	appIdentity history.Identity = identity.NewResolver()
	appRunner   executor.Runner
	appClock    = time.Now
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it shows the transaction summary.
var rootCmd = &cobra.Command{
	Use:   "pkghistory",
	Short: "Inspect, clear, undo and redo package manager transactions.",
	Long: `pkghistory keeps a numbered log of every install, remove and upgrade run
through the package manager front-end.

Running pkghistory without a subcommand prints an overview of all transactions.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runShow,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(append([]string{cmd.CommandPath()}, args...))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// It is the only place that terminates the process on failure.
func Execute() {
	logger.SetVersion(version)
	if err := rootCmd.Execute(); err != nil {
		HandleFatalError(UserMessage(err), err)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is /etc/pkghistory/.pkghistory.yaml, $HOME/.pkghistory.yaml or ./.pkghistory.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("history-file", "", "history document to operate on")
	rootCmd.PersistentFlags().String("format", "", "history document format: json, yaml or toml")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("history.file", rootCmd.PersistentFlags().Lookup("history-file"))
	_ = viper.BindPFlag("history.format", rootCmd.PersistentFlags().Lookup("format"))
}

// session bundles what a command needs and releases it on Close.
type session struct {
	service *history.Service
	store   *store.FileHistoryStore
	logger  *slog.Logger
	closers []io.Closer
}

func (s *session) Close() {
	for _, c := range s.closers {
		_ = c.Close()
	}
}

// openSession wires the store, logger, identity and executor from configuration.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg := GetConfig()

	log, logCloser, err := logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Verbose:   cfg.Verbose,
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Console:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	logger.SetCrashDir(config.CrashDir(cfg.Log.CrashDir))

	st := store.NewFileHistoryStore(store.WithFs(appFs), store.WithLogger(log))
	if err := st.Initialize(map[string]string{
		"historyFile":   cfg.History.File,
		"historyFormat": cfg.History.Format,
	}); err != nil {
		_ = logCloser.Close()
		return nil, fmt.Errorf("failed to initialize history store at %s: %w", cfg.History.File, err)
	}
	logger.SetHistoryFile(st.Path())

	exec, err := executor.NewCommand(cfg.Executor.Command, appRunner)
	if err != nil {
		_ = st.Close()
		_ = logCloser.Close()
		return nil, err
	}

	svc := history.NewService(st, appIdentity, exec, history.WithLogger(log), history.WithClock(appClock))
	return &session{service: svc, store: st, logger: log, closers: []io.Closer{st, logCloser}}, nil
}
