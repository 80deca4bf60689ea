package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/certcat/lintx509/x509lint"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// ExtensionsTable writes the extensions of cert as a markdown table of
// extension name, criticality and a one-line summary of the value.
func ExtensionsTable(w io.Writer, cert *x509lint.Certificate) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)
	table.Header([]string{"Extension", "Critical", "Value"})

	var rows [][]string
	for _, ext := range cert.TBSCertificate.Extensions {
		rows = append(rows, []string{
			ext.ExtnID.String(),
			strconv.FormatBool(ext.Critical),
			Summary(ext.Value),
		})
	}

	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// Summary flattens the leaves under n into "label=value" pairs separated by
// "; ".
func Summary(n x509lint.Node) string {
	var parts []string
	collectLeaves(n, &parts)
	return strings.Join(parts, "; ")
}

func collectLeaves(n x509lint.Node, parts *[]string) {
	for _, f := range n.Fields() {
		if !f.Container {
			*parts = append(*parts, f.Label+"="+f.Value)
			continue
		}
		for _, c := range f.Children {
			collectLeaves(c, parts)
		}
	}
}
