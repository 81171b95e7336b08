package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/evgen/pkg/evgen/species"
)

func buildListSpeciesCommand(gf *globalFlags) *cobra.Command {
	var (
		ids      []int
		channels bool
	)

	cmd := &cobra.Command{
		Use:   "list-species",
		Short: "Print the species table",
		Example: `  evgen list-species
  evgen list-species --id 111 --id 211 --channels
  evgen list-species --species extra.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := gf.loadSpecies()
			if err != nil {
				return err
			}
			return listSpecies(cmd.OutOrStdout(), tbl, ids, channels)
		},
	}

	cmd.Flags().IntSliceVar(&ids, "id", nil, "only list these ids")
	cmd.Flags().BoolVar(&channels, "channels", false, "also list decay channels")

	return cmd
}

// listSpecies writes one line per species, in ascending id order or in the
// order of ids when given.
func listSpecies(w io.Writer, tbl *species.Table, ids []int, channels bool) error {
	if len(ids) == 0 {
		ids = tbl.IDs()
	}

	if _, err := fmt.Fprintf(w, "\n --------  Species Table  --------------------------------------------------------------\n \n"+
		"        id  name              antiName          spn chg col        m0      mWidth        tau0\n"); err != nil {
		return err
	}
	for _, id := range ids {
		e, ok := tbl.Entry(id)
		if !ok {
			return fmt.Errorf("unknown species id %d", id)
		}
		anti := e.AntiName
		if !e.HasAnti() {
			anti = ""
		}
		if _, err := fmt.Fprintf(w, "%10d  %-16s  %-16s %3d %3d %3d %10.5f %11.5f %11.4e\n",
			e.ID, e.Name, anti, e.SpinType, e.ChargeType, e.ColType, e.M0, e.MWidth, e.Tau0); err != nil {
			return err
		}
		if !channels {
			continue
		}
		for i, c := range e.Channels {
			if _, err := fmt.Fprintf(w, "%16d %3d %10.6f %3d  %v\n", i, c.OnMode, c.BRatio, c.MEMode, c.Products); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "\n --------  End Species Table  ----------------------------------------------------------\n")
	return err
}
