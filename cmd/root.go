// ABOUTME: Root command for the filebox CLI
// ABOUTME: Handles global flags, env configuration, and shared wiring

package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"filebox-cli/internal/client"
	"filebox-cli/internal/profile"
	"filebox-cli/internal/session"
)

var (
	apiURL     string
	jsonOutput bool
)

const defaultAPIURL = "http://localhost:8000"

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "filebox",
	Short: "Terminal client for the FileBox file-storage service",
	Long: `filebox is a terminal client for the FileBox file-storage service.

It manages your account and session: register, sign in and out, view and
edit your profile, and change your password. Run "filebox ui" for the
interactive interface, or use the subcommands directly from scripts.

Environment Variables:
  FILEBOX_API_URL  Backend API URL (default: http://localhost:8000)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// A .env next to the binary is optional
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides FILEBOX_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("FILEBOX_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// appEnv bundles the wiring shared by every command: the durable
// credential store, the gateway bound to it, and the services on top.
type appEnv struct {
	store    *session.Store
	sessions *session.Controller
	profiles *profile.Manager
}

// newAppEnv wires the client stack against the configured backend
func newAppEnv() *appEnv {
	store := session.NewStore(session.NewFileStore(session.DefaultConfigDir()))
	api := client.New(GetAPIURL(), store)
	return &appEnv{
		store:    store,
		sessions: session.NewController(api, store),
		profiles: profile.NewManager(api),
	}
}
