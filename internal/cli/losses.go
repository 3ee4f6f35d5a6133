package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeonardoBeccarini/ecohydro/internal/simulator"
)

func newLossesCmd() *cobra.Command {
	var (
		sf     siteFlags
		points int
	)
	cmd := &cobra.Command{
		Use:   "losses",
		Short: "Print the soil water loss curve E+T+L against moisture",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sf.resolve()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "s\tE\tT\tL\ttotal\t")
			for _, p := range simulator.LossCurve(s.Soil, points) {
				fmt.Fprintf(tw, "%.3f\t%.4f\t%.4f\t%.4f\t%.4f\t\n", p.Moisture,
					simulator.Evaporation(s.Soil, p.Moisture),
					simulator.Transpiration(s.Soil, p.Moisture),
					simulator.Leakage(s.Soil, p.Moisture),
					p.Loss)
			}
			return tw.Flush()
		},
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&points, "points", 100, "number of moisture samples in [0,1)")
	return cmd
}
