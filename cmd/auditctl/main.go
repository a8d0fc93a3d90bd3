// Command auditctl runs the consistency audit and the margin monitor for
// one tenant from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/gestor/backend/internal/infrastructure/config"
	"github.com/gestor/backend/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// cli carries the state shared by every subcommand
type cli struct {
	envFile string
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	log     *zap.Logger
	connect runnerFactory
}

func newRootCmd(connect runnerFactory) *cobra.Command {
	c := &cli{v: viper.New(), connect: connect}

	root := &cobra.Command{
		Use:           "auditctl",
		Short:         "Consistency audit and margin monitor",
		Long:          `auditctl cross-checks quotes, production orders, receivables and commissions of a tenant and compares projected with realized margins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.StringVar(&c.cfgFile, "config", "", "config file (default: config.toml in ., ./backend or /app)")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	_ = c.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = c.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(c.auditCmd())
	root.AddCommand(c.marginsCmd())
	return root
}

// init loads the dotenv file, the configuration and the logger. Logs go
// to stderr so stdout carries only the report.
func (c *cli) init() error {
	if err := godotenv.Load(c.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", c.envFile, err)
	}
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	}

	cfg, err := config.LoadWithViper(c.v)
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.log, err = logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(connectDatabase).ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
