// Package cli implements the ecohydro command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// DefaultSeed is the seed used when none is given on the command line.
const DefaultSeed int64 = 69420

// NewRootCmd builds the ecohydro root command with all subcommands attached.
func NewRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "ecohydro",
		Short: "Stochastic rainfall, soil moisture and soil carbon simulator",
		Long: `ecohydro runs a three-stage site model: a stochastic daily rainfall
generator drives a bucket soil-moisture balance, which modulates a
litter/humus/biomass soil-carbon model.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newPresetsCmd(),
		newLossesCmd(),
	)
	return root
}
