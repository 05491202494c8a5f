package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sirkon/spanwrap/internal/config"
	"github.com/sirkon/spanwrap/internal/rewrite"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the state shared by subcommands.
type app struct {
	v      *viper.Viper
	cfg    config.Config
	logger *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{
		v:      viper.New(),
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:   "spanwrap",
		Short: "Instrument annotated Go functions with tracing spans",
		Long: `spanwrap rewrites functions annotated with

	//spanwrap:sync(<tag>)
	//spanwrap:async(<tag>)
	//spanwrap:async-fine(<tag>)

so that every call is measured by a span of the given category. Signatures
and line numbers of the original source are kept.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.String("config", config.DefaultFileName, "configuration file")
	flags.Bool("debug", false, "enable debug logging")
	format := logFormatConsole
	flags.Var(&format, "log-format", "log format (console, json)")

	for _, name := range []string{"config", "debug", "log-format"} {
		if err := a.v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Errorf("bind flag %s: %w", name, err))
		}
	}
	a.v.SetEnvPrefix("SPANWRAP")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.printCommand(),
		a.rewriteCommand(),
		a.checkCommand(),
	)

	return root
}

// setup reads configuration and installs the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var format logFormat
	if err := format.UnmarshalText([]byte(a.v.GetString("log-format"))); err != nil {
		return err
	}

	logger, err := format.logger(a.v.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	a.logger = logger
	rewrite.SetLogger(logger.Named("rewrite"))

	path := a.v.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	a.logger.Debug(
		"configuration loaded",
		zap.String("path", path),
		zap.String("runtime", cfg.Runtime.Path),
		zap.Bool("line-directives", cfg.LineDirectives),
		zap.Bool("format", cfg.Format),
	)

	return nil
}
