// Package cli implements the lintx509 command line.
package cli

import (
	"os"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/files/pem"
	"github.com/certcat/lintx509/x509lint"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions is the state shared by every subcommand.
type rootOptions struct {
	configPath     string
	strictCritical bool

	config *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "lintx509",
		Short:        "Strictly decode and inspect X.509 certificates",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(o.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict-critical") {
				cfg.Policy.RejectUnknownCritical = o.strictCritical
			}
			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			o.config, o.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = o.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "Path to a YAML config file (default $"+config.EnvFile+")")
	cmd.PersistentFlags().BoolVar(&o.strictCritical, "strict-critical", false, "Reject critical extensions that have no decoder")

	cmd.AddCommand(newPrintCmd(o), newCheckCmd(o))
	return cmd
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadFile parses every certificate in the file at path. rawDER treats the
// whole file as one DER certificate instead of PEM.
func loadFile(path string, rawDER bool, opts x509lint.Options) ([]*x509lint.Certificate, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !rawDER {
		return pem.LoadAll(content, opts)
	}

	cert, err := opts.ParseCertificate(content)
	if err != nil {
		return nil, err
	}
	return []*x509lint.Certificate{cert}, nil
}
