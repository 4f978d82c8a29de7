// ABOUTME: UI command launching the interactive FileBox terminal interface
// ABOUTME: Opens on the dashboard when a session is stored, the auth screen otherwise

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"filebox-cli/internal/tui"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Launch the interactive interface",
	Long:  `Launch the interactive terminal interface for FileBox.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := newAppEnv()
		if err := tui.Run(env.sessions, env.profiles); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(uiCmd)
}
