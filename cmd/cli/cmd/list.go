package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/picogrid/air-raid-simulation/pkg/simulation"
	"github.com/picogrid/air-raid-simulation/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available simulations",
	Long: `List all registered simulations with their descriptions. With --scan,
list the simulation.yaml manifests found under a directory instead.`,
	RunE: listSimulations,
}

func init() {
	listCmd.Flags().String("scan", "", "scan a directory for simulation.yaml manifests")
	listCmd.Flags().Bool("params", false, "show each simulation's parameters")
}

func listSimulations(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	showParams, _ := cmd.Flags().GetBool("params")

	var manifests []*simulation.Manifest
	if dir, _ := cmd.Flags().GetString("scan"); dir != "" || cmd.Flags().Changed("scan") {
		found, err := utils.DiscoverManifests(dir)
		if err != nil {
			return fmt.Errorf("failed to discover simulations: %w", err)
		}
		for _, f := range found {
			manifests = append(manifests, f.Manifest)
		}
	} else {
		manifests = simulation.DefaultRegistry.Manifests()
	}

	if len(manifests) == 0 {
		_, _ = fmt.Fprintln(out, "No simulations found")
		return nil
	}

	return writeManifests(out, manifests, showParams)
}

func writeManifests(out io.Writer, manifests []*simulation.Manifest, showParams bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tCATEGORY\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t-------\t--------\t-----------")

	for _, m := range manifests {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Version, m.Category, m.Description)
		if !showParams {
			continue
		}
		for _, p := range m.Parameters {
			_, _ = fmt.Fprintf(w, "  %s\t%s\t%v\t%s\n", p.Name, p.Type, p.Default, p.Description)
		}
	}

	return w.Flush()
}
