// ABOUTME: Root command for callbridgectl
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	apiURL     string
	adminKey   string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8080"

// Exit codes returned by command runners.
const (
	exitOK      = 0
	exitUsage   = 1
	exitBackend = 2
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "callbridgectl",
	Short: "CLI for the callbridge voice-agent bridge",
	Long: `callbridgectl manages caller memory and operator notes on a callbridge server.

Environment Variables:
  CALLBRIDGE_API_URL    Server URL (default: http://localhost:8080)
  CALLBRIDGE_ADMIN_KEY  Admin API key sent as a bearer token

When neither --admin-key nor CALLBRIDGE_ADMIN_KEY is set and stdin is a
terminal, admin commands prompt for the key with masked input.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Server URL (overrides CALLBRIDGE_API_URL)")
	rootCmd.PersistentFlags().StringVar(&adminKey, "admin-key", "", "Admin API key (overrides CALLBRIDGE_ADMIN_KEY)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("CALLBRIDGE_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// GetAdminKey returns the admin key from flag or env. The value is sent
// verbatim.
func GetAdminKey() string {
	if adminKey != "" {
		return adminKey
	}
	return os.Getenv("CALLBRIDGE_ADMIN_KEY")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
