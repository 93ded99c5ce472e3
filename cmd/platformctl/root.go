package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/logging"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/platform"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/settings"
)

type rootOptions struct {
	env        string
	configFile string
	jsonLog    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "platformctl",
		Short: "Inspect the Belisco data platform topology",
		Long: `platformctl builds the data platform topology for one environment and
renders it. It uses the same settings and assembler as the Pulumi program
but never talks to AWS.

Available commands:
  graph    - Print every stack and resource as YAML
  dot      - Print the dependency graph in Graphviz format
  order    - Print the resource creation order
  validate - Check the graph and the security baseline

Examples:
  platformctl --env staging graph
  platformctl --env production dot | dot -Tsvg > platform.svg
  ENVIRONMENT=develop platformctl validate --json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.env, "env", "e", "", "Environment to build (defaults to $"+environment.Variable+")")
	flags.StringVarP(&opts.configFile, "config", "c", "", "Settings file (defaults to $"+settings.ConfigFileVariable+")")
	flags.BoolVar(&opts.jsonLog, "json-log", false, "Log as JSON")
	flags.BoolVar(&opts.debug, "debug", false, "Log every registered resource")

	cmd.AddCommand(
		newGraphCmd(opts),
		newDotCmd(opts),
		newOrderCmd(opts),
		newValidateCmd(opts),
	)
	return cmd
}

// assemble resolves the environment and settings and builds the topology.
func (o *rootOptions) assemble() (*platform.Topology, error) {
	env, err := o.environment()
	if err != nil {
		return nil, err
	}
	cfg, err := settings.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	log, err := o.logger(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()
	return platform.Assemble(env, cfg, log)
}

func (o *rootOptions) environment() (environment.Environment, error) {
	if o.env != "" {
		return environment.Parse(o.env)
	}
	return environment.FromEnv()
}

func (o *rootOptions) logger(cfg *settings.Settings) (*zap.SugaredLogger, error) {
	return logging.New(o.jsonLog || cfg.Log.JSON, o.debug || cfg.Log.Debug)
}
