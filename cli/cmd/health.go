// ABOUTME: Health command for callbridgectl
// ABOUTME: Checks server connectivity

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/markalston/callbridge/cli/internal/styles"
	"github.com/markalston/callbridge/models"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server connectivity",
	Long:  `Check connectivity to the callbridge server. Does not require an admin key.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runWithSignals(cmd, runHealth)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()

	resp, err := newClient().Health(ctx)
	if err != nil {
		return backendError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]string{"backend": url, "status": resp.Status})
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}
	return exitOK
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	return styles.Field("Backend:", url) + "\n" + styles.Label.Render("Status:") + styles.Status(resp.Status)
}
