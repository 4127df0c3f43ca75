package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gojideth/Docker-compose-networks/cmd/personsvc/internal"
	"github.com/gojideth/Docker-compose-networks/internal/api"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe a running personsvc instance's /health endpoint",
	Long: `Check calls GET /health on a running instance and exits non-zero unless
the instance reports its database as healthy. Suitable as a container
HEALTHCHECK.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		url, _ := cmd.Flags().GetString("url")
		timeout, _ := cmd.Flags().GetDuration("timeout")
		return runCheck(cmd.Context(), cmd.OutOrStdout(), &http.Client{Timeout: timeout}, url)
	},
}

func init() {
	checkCmd.Flags().String("url", "http://localhost:8000", "Base URL of the personsvc instance")
	checkCmd.Flags().Duration("timeout", 10*time.Second, "HTTP timeout for the probe")
}

// runCheck performs a single health probe against baseURL.
func runCheck(ctx context.Context, out io.Writer, client *http.Client, baseURL string) error {
	endpoint := strings.TrimSuffix(baseURL, "/") + "/health"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return internal.WrapError(internal.ExitConfigError, "invalid --url", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return internal.WrapError(internal.ExitError, fmt.Sprintf("health check request to %s failed", endpoint), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return internal.NewCLIError(internal.ExitError,
			fmt.Sprintf("health check failed with status code: %d", resp.StatusCode))
	}

	var health api.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return internal.WrapError(internal.ExitError, "invalid health response", err)
	}

	fmt.Fprintf(out, "status: %s\ndatabase: %s\n", formatStatus(health.Status), health.Database)
	if health.Status != "healthy" {
		if health.Error != "" {
			fmt.Fprintf(out, "error: %s\n", health.Error)
		}
		return internal.NewCLIError(internal.ExitUnhealthy, "service reports the database as unhealthy")
	}
	return nil
}

// formatStatus returns a color-coded status string for terminal output
func formatStatus(status string) string {
	if status == "healthy" {
		return color.New(color.FgGreen).Sprint(status)
	}
	return color.New(color.FgRed, color.Bold).Sprint(status)
}
