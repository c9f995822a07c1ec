// Command riepilogo-cli prints monthly summaries and comparisons in the
// terminal and manages expenses and exports without the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"riepilogo/internal/cli"
	"riepilogo/internal/config"
	"riepilogo/internal/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(viper.New()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

// app carries the settings shared by every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *log.Logger
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	a := &app{v: v, logger: log.Discard()}

	root := &cobra.Command{
		Use:   "riepilogo-cli",
		Short: "Monthly expense summaries in the terminal",
		Long: `riepilogo-cli aggregates expenses per calendar month, compares a month
with the one before it and exports workbooks.

Every flag can also be set through a RIEPILOGO_* environment variable or a
config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/riepilogo/config.yaml)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("backend", config.BackendMemory, "data backend (memory, sqlite, remote)")
	flags.String("seed-file", "", "JSON file seeding the memory backend")
	flags.String("sqlite-path", "./data/riepilogo.db", "SQLite database path")
	flags.String("store-url", "", "base URL of the remote expense store")
	flags.String("store-token", "", "bearer token for the remote expense store")
	flags.Duration("timeout", defaultTimeout, "timeout for store calls")

	for _, name := range []string{"log-level", "backend", "seed-file", "sqlite-path", "store-url", "store-token", "timeout"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(a.summaryCmd())
	root.AddCommand(a.compareCmd())
	root.AddCommand(a.expensesCmd())
	root.AddCommand(a.exportCmd())
	return root
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home + "/.config/riepilogo")
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	a.v.SetEnvPrefix("RIEPILOGO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	level := a.v.GetString("log-level")
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", level)
	}
	a.logger = log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentCLI,
		Handler: slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: log.ParseLevel(level),
		}),
	})
	return nil
}
