package cli

import (
	"encoding/json"
	"fmt"

	"github.com/certcat/lintx509/config"
	"github.com/certcat/lintx509/der"
	"github.com/certcat/lintx509/render"
	"github.com/certcat/lintx509/x509lint"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type printOptions struct {
	*rootOptions
	format string
	rawDER bool
}

func newPrintCmd(root *rootOptions) *cobra.Command {
	o := &printOptions{rootOptions: root}

	cmd := &cobra.Command{
		Args: cobra.MinimumNArgs(1),
		RunE: o.run,
		Use:  "print [flags] filenames...",
		Long: `Print a certificate.

Takes a path to a certificate and prints out its contents.`,
	}

	cmd.Flags().StringVarP(&o.format, "format", "f", "", "Output format: tree, json or table (default from config)")
	cmd.Flags().BoolVar(&o.rawDER, "der", false, "Input files are DER rather than PEM")
	return cmd
}

func (o *printOptions) run(cmd *cobra.Command, files []string) error {
	format := o.config.Output.Format
	if o.format != "" {
		format = o.format
	}
	switch format {
	case config.FormatTree, config.FormatJSON, config.FormatTable:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	certs := make(map[string][]*x509lint.Certificate, len(files))
	for _, file := range files {
		these, err := loadFile(file, o.rawDER, o.config.ParseOptions())
		if err != nil {
			kind, _ := der.KindOf(err)
			o.logger.Error("Failed to load certificates",
				zap.String("file", file),
				zap.Stringer("kind", kind),
				zap.Error(err))
			return fmt.Errorf("%s: %w", file, err)
		}
		certs[file] = these
	}

	out := cmd.OutOrStdout()
	switch format {
	case config.FormatJSON:
		doc := make(map[string][]any, len(certs))
		for file, these := range certs {
			for _, cert := range these {
				doc[file] = append(doc[file], render.JSONValue(cert))
			}
		}
		d, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(d))
		return err

	case config.FormatTable:
		for _, file := range files {
			for i, cert := range certs[file] {
				if _, err := fmt.Fprintf(out, "%s certificate %d: %s\n\n", file, i, cert.TBSCertificate.Subject); err != nil {
					return err
				}
				if err := render.ExtensionsTable(out, cert); err != nil {
					return err
				}
			}
		}

	default:
		for _, file := range files {
			for i, cert := range certs[file] {
				if err := render.Tree(out, fmt.Sprintf("%s certificate %d", file, i), cert); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
