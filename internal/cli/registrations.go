package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nickguletskii/grundzeug/inspect"
)

// registrationsCommand creates the "registrations" command.
func (c *CLI) registrationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registrations",
		Short: "List the registrations visible from the innermost layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.buildHierarchy()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DEPTH\tCONTAINER\tPLUGIN\tKEY\tLIFECYCLE")
			for _, r := range inspect.Snapshot(h.leaf) {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Depth, r.Container.String()[:8], r.Plugin, r.Key, r.Lifecycle)
			}
			return tw.Flush()
		},
	}
}
