package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"unidash/pkg/contracts/domain"
)

// WriteText renders vm as aligned plain-text tables for terminals.
func WriteText(w io.Writer, vm domain.ViewModel) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, t := range Tables(vm) {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "== %s ==\n", t.Name)
		if t.Notice != "" {
			fmt.Fprintln(tw, t.Notice)
		}
		if len(t.Rows) == 0 {
			continue
		}
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
		for _, row := range t.Rows {
			fmt.Fprintln(tw, strings.Join(formatRow(row), "\t"))
		}
		// Flush per table so column widths do not leak between sections.
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return tw.Flush()
}
