package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/picogrid/air-raid-simulation/pkg/logger"
	"github.com/picogrid/air-raid-simulation/pkg/simulation"
	"github.com/picogrid/air-raid-simulation/pkg/utils"

	// Import simulations to register them
	_ "github.com/picogrid/air-raid-simulation/cmd/air-raid/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation",
	Long: `Run a simulation interactively or with specified parameters.

Parameters come from the --params file first, then AIRRAID_<NAME>
environment variables, then prompts (skipped when not on a terminal or
when AIRRAID_SKIP_PROMPTS=true), then the simulation's defaults.`,
	RunE: runSimulation,
}

func init() {
	runCmd.Flags().StringP("simulation", "s", "", "simulation name to run")
	runCmd.Flags().StringP("params", "p", "", "parameters file (YAML)")
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	interactive := utils.IsInteractive()

	simName, err := selectSimulation(cmd, interactive)
	if err != nil {
		return fmt.Errorf("failed to select simulation: %w", err)
	}

	sim, err := simulation.DefaultRegistry.Get(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation: %w", err)
	}
	manifest, err := simulation.DefaultRegistry.Manifest(simName)
	if err != nil {
		return fmt.Errorf("failed to get simulation manifest: %w", err)
	}

	preset, err := loadParamsFile(cmd)
	if err != nil {
		return err
	}
	if settingsPath := viper.GetString("settings"); settingsPath != "" {
		if _, ok := preset["settings_path"]; !ok {
			preset["settings_path"] = settingsPath
		}
	}

	params, err := utils.ResolveParameters(manifest.Parameters, preset, interactive)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	if err := sim.Configure(params); err != nil {
		return fmt.Errorf("failed to configure simulation: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
		case <-ctx.Done():
			return
		}
		logger.Warn("Received interrupt signal, stopping simulation...")
		if err := sim.Stop(); err != nil {
			logger.Errorf("Failed to stop simulation: %v", err)
		}
		cancel()
	}()

	logger.LogSection(fmt.Sprintf("Starting %s", sim.Name()))
	if err := sim.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulation failed: %w", err)
	}

	logger.Success("Simulation completed successfully")
	return nil
}

func loadParamsFile(cmd *cobra.Command) (map[string]interface{}, error) {
	preset := make(map[string]interface{})

	path, _ := cmd.Flags().GetString("params")
	if path == "" {
		return preset, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameters file: %w", err)
	}
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}
	return preset, nil
}

func selectSimulation(cmd *cobra.Command, interactive bool) (string, error) {
	// Check if simulation is specified via flag
	simName, _ := cmd.Flags().GetString("simulation")
	if simName != "" {
		return simName, nil
	}

	manifests := simulation.DefaultRegistry.Manifests()
	if len(manifests) == 0 {
		return "", fmt.Errorf("no simulations registered")
	}
	if len(manifests) == 1 || !interactive {
		return manifests[0].Name, nil
	}

	options := make([]string, len(manifests))
	descriptions := make(map[string]string)
	for i, m := range manifests {
		options[i] = m.Name
		descriptions[m.Name] = m.Description
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select simulation:",
		Options: options,
		Description: func(value string, index int) string {
			return descriptions[value]
		},
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	return selected, nil
}
