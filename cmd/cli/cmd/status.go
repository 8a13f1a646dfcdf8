package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/picogrid/air-raid-simulation/cmd/air-raid/core"
	"github.com/picogrid/air-raid-simulation/pkg/config"
	"github.com/picogrid/air-raid-simulation/pkg/logger"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of a running simulation",
	Long: `Query a running simulation's feed server for its status. The address
comes from --address, or from the named --endpoint in the CLI config file.`,
	RunE: showStatus,
}

func init() {
	statusCmd.Flags().String("address", "", "feed server address (host:port)")
	statusCmd.Flags().String("endpoint", "", "named endpoint from the CLI config")
	statusCmd.Flags().Duration("timeout", 5*time.Second, "request timeout")
}

func showStatus(cmd *cobra.Command, _ []string) error {
	address, err := resolveAddress(cmd)
	if err != nil {
		return err
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	status, err := fetchStatus(address, timeout)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, status.String())
	writeStatusTable(out, status)
	return nil
}

func resolveAddress(cmd *cobra.Command) (string, error) {
	if address, _ := cmd.Flags().GetString("address"); address != "" {
		return address, nil
	}

	path, err := preferencesPath()
	if err != nil {
		return "", err
	}
	prefs, err := config.LoadPreferencesFromFile(path)
	if err != nil {
		return "", err
	}

	name, _ := cmd.Flags().GetString("endpoint")
	endpoint, err := prefs.Endpoint(name)
	if err != nil {
		return "", err
	}
	return endpoint.Address, nil
}

func fetchStatus(address string, timeout time.Duration) (*core.Status, error) {
	base := address
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(strings.TrimSuffix(base, "/") + "/status")
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", address, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request to %s failed: %s", address, resp.Status)
	}

	var status core.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

func writeStatusTable(out io.Writer, status *core.Status) {
	wing := "standby"
	switch {
	case status.WingRefueling:
		wing = "refueling"
	case status.WingActive:
		wing = "active"
	}

	table := logger.NewTable("Field", "Value")
	table.AddRow("Score", fmt.Sprint(status.Score))
	table.AddRow("Raiders", fmt.Sprint(status.Raiders))
	table.AddRow("Towers", fmt.Sprintf("%d/%d", status.Towers, status.MaxTowers))
	table.AddRow("Wing", wing)
	table.AddRow("Spawn cooldown", fmt.Sprintf("%.1fs", status.SpawnCooldown))
	table.AddRow("Sim time", (time.Duration(status.SimTime * float64(time.Second))).Round(time.Second).String())
	table.AddRow("Auto start", fmt.Sprint(status.AutoStart))
	table.Fprint(out)
}
