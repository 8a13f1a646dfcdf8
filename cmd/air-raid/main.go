package main

import (
	"fmt"
	"os"

	"github.com/picogrid/air-raid-simulation/pkg/simulation"

	// Import to register the simulation
	_ "github.com/picogrid/air-raid-simulation/cmd/air-raid/simulation"
)

func main() {
	for _, m := range simulation.DefaultRegistry.Manifests() {
		fmt.Printf("%s %s registered. Use 'air-raid run -s %q' to execute.\n", m.Name, m.Version, m.Name)
	}
	os.Exit(0)
}
