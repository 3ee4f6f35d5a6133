package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/ecohydro/internal/site"
)

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "List site presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				s, err := site.Preset(args[0])
				if err != nil {
					return err
				}
				b, err := site.Marshal(s)
				if err != nil {
					return err
				}
				_, err = out.Write(b)
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "name\tlocation\trainy days\tyearly rain\tdays")
			for _, n := range site.Names() {
				s, _ := site.Preset(n)
				fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%d\n",
					s.Name, s.Location, s.Rainfall.RainyDays, s.Rainfall.YearlyRainfall, s.Rainfall.Days)
			}
			return tw.Flush()
		},
	}
	return cmd
}
