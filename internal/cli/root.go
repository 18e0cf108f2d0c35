// Package cli wires the ementa commands: the HTTP server and the offline tools.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ementa/internal/config"
)

type rootOptions struct {
	configPath string
	env        string
}

// load reads the explicit config file, or the environment file with defaults as fallback.
func (o *rootOptions) load() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.LoadOrDefault(o.env)
}

// NewRootCommand builds the ementa command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ementa",
		Short: "Search and analyze judicial decision summaries",
		Long: `ementa loads tabular collections of court decisions (STF, STJ), filters them,
counts keyword occurrences, ranks frequent words and renders CSV and PDF reports.

Run "ementa serve" for the HTTP API or "ementa analyze" for a one-shot analysis.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: config/<env>.yaml)")
	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "environment name (local, dev, prod)")

	cmd.AddCommand(serveCmd(opts))
	cmd.AddCommand(analyzeCmd(opts))
	cmd.AddCommand(sampleCmd())
	cmd.AddCommand(versionCmd())
	return cmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}
