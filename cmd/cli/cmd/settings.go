package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/config"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
	"github.com/picogrid/air-raid-simulation/pkg/utils"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and create simulation settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.LoadSettingsOrDefault(viper.GetString("settings"))
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), settings.String())
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where settings are searched for",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candidates := []string{}
		if p := viper.GetString("settings"); p != "" {
			candidates = append(candidates, p)
		}
		candidates = append(candidates, config.DefaultFileName)
		if p, err := config.UserSettingsPath(); err == nil {
			candidates = append(candidates, p)
		}

		table := logger.NewTable("Path", "Status")
		for _, p := range candidates {
			state := "missing"
			if _, err := os.Stat(p); err == nil {
				state = "found"
			}
			table.AddRow(p, state)
		}
		table.Fprint(cmd.OutOrStdout())
		return nil
	},
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file",
	Long: `Write a settings file. On a terminal a few questions tune the core
options; otherwise the defaults are written.`,
	RunE: initSettings,
}

func init() {
	settingsInitCmd.Flags().StringP("output", "o", config.DefaultFileName, "file to write")
	settingsInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsInitCmd)
}

func initSettings(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	force, _ := cmd.Flags().GetBool("force")

	if _, err := os.Stat(output); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", output)
	}

	settings := config.GetDefaultSettings()
	if utils.IsInteractive() && os.Getenv(utils.SkipPromptsEnv) != "true" {
		if err := askSettings(settings); err != nil {
			return err
		}
	}

	if err := config.SaveSettings(settings, output); err != nil {
		return err
	}
	logger.Successf("Settings written to %s", output)
	return nil
}

func askSettings(settings *config.Settings) error {
	answers := struct {
		Speed    float64
		Multiple bool
		Auto     bool
		Cooldown float64
		Feed     bool
	}{}

	questions := []*survey.Question{
		{
			Name:     "speed",
			Prompt:   &survey.Input{Message: "Speed multiplier:", Default: fmt.Sprint(settings.SpeedMultiplier)},
			Validate: survey.Required,
		},
		{
			Name:   "multiple",
			Prompt: &survey.Confirm{Message: "Allow multiple raiders at once?", Default: settings.MultipleAirplanesEnabled},
		},
		{
			Name:   "auto",
			Prompt: &survey.Confirm{Message: "Hand control to the autopilot on start?", Default: settings.AutoStartEnabled},
		},
		{
			Name:     "cooldown",
			Prompt:   &survey.Input{Message: "Spawn cooldown (seconds):", Default: fmt.Sprint(settings.SpawnCooldownSeconds)},
			Validate: survey.Required,
		},
		{
			Name:   "feed",
			Prompt: &survey.Confirm{Message: "Serve the WebSocket feed?", Default: settings.Feed.Enabled},
		},
	}

	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	settings.SpeedMultiplier = answers.Speed
	settings.MultipleAirplanesEnabled = answers.Multiple
	settings.AutoStartEnabled = answers.Auto
	settings.SpawnCooldownSeconds = answers.Cooldown
	settings.Feed.Enabled = answers.Feed
	return nil
}
