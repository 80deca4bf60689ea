package cli

import (
	"fmt"

	"github.com/certcat/lintx509/der"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type checkOptions struct {
	*rootOptions
	rawDER bool
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	o := &checkOptions{rootOptions: root}

	cmd := &cobra.Command{
		Args:  cobra.MinimumNArgs(1),
		RunE:  o.run,
		Use:   "check [flags] filenames...",
		Short: "Check that certificates decode strictly",
	}

	cmd.Flags().BoolVar(&o.rawDER, "der", false, "Input files are DER rather than PEM")
	return cmd
}

func (o *checkOptions) run(cmd *cobra.Command, files []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, file := range files {
		certs, err := loadFile(file, o.rawDER, o.config.ParseOptions())
		if err != nil {
			failed++
			kind, _ := der.KindOf(err)
			o.logger.Debug("Certificate check failed",
				zap.String("file", file),
				zap.Stringer("kind", kind),
				zap.Error(err))
			fmt.Fprintf(out, "%s: FAIL %s: %v\n", file, kind.String(), err)
			continue
		}
		fmt.Fprintf(out, "%s: OK (%d certificates)\n", file, len(certs))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}
