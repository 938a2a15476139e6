package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"worklog/internal/config"
	"worklog/internal/logger"
	"worklog/internal/match"
	"worklog/internal/metrics"
	"worklog/internal/reconcile"
	"worklog/internal/store/postgres"
	"worklog/internal/transfer"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "Worklog is a personal work-log and OJT requirement tracker",
	Long: `worklog records dated job entries and a list of open OJT (on-the-job
training) requirements, then reconciles the two: when a job is saved it is
checked against every open requirement, and a hit marks the requirement done
and flags the job as satisfying it.

Common workflows:

  Log a job:
    worklog job add --category CLS --pn "98-7654-321" --notes "replace gasket"

  Record a requirement:
    worklog todo add --category CLS --pn "98-7654-321" --notes "replace gasket"

  Bulk-import requirements from JSON or CSV:
    worklog import requirements.csv

  Repair completion state after edits or imports:
    worklog recheck

  Save or restore everything:
    worklog backup worklog-backup.json
    worklog restore worklog-backup.json

Configuration:
  Set the database connection via flag, environment or a config file:
    WORKLOG_DATABASE_URL    PostgreSQL connection string
    WORKLOG_LOG_LEVEL       debug, info, warn or error (default: info)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".worklog"
		viper.AddConfigPath(home)
		viper.SetConfigName(".worklog")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "WORKLOG_VARNAME"
	viper.SetEnvPrefix("WORKLOG")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.worklog.yaml)")

	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database_url", rootCmd.PersistentFlags().Lookup("database-url"))

	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// app bundles everything a command needs once the store is open.
type app struct {
	store    *postgres.Store
	engine   *reconcile.Engine
	importer *transfer.Importer
	logger   *slog.Logger
}

// openApp loads configuration, opens the store and wires the engine.
// The returned cleanup closes the database connection.
func openApp(cmd *cobra.Command) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if v := viper.GetString("database_url"); v != "" {
		cfg.DatabaseURL = v
	}
	if viper.GetBool("verbose") {
		cfg.LogLevel = slog.LevelDebug
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("database URL not set; use --database-url or WORKLOG_DATABASE_URL")
	}

	st, err := postgres.New(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(cfg.LogLevel)

	var sink metrics.Sink = metrics.NewNoopSink()
	if cfg.MetricsEnabled {
		sink = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
	}

	engine := reconcile.New(st, match.Predicate{}, sink, log)
	importer := transfer.NewImporter(st, engine, sink)

	cleanup := func() {
		st.Close()
	}
	return &app{store: st, engine: engine, importer: importer, logger: log}, cleanup, nil
}

// opContext tags the command context with a fresh operation ID so the
// engine's log lines can be traced back to one invocation.
func opContext(cmd *cobra.Command) context.Context {
	return logger.WithOperationID(cmd.Context(), uuid.NewString())
}
