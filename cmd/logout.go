// ABOUTME: Logout command for the filebox CLI
// ABOUTME: Clears the persisted session locally, no server round-trip

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out of FileBox",
	Long:  `Clear the locally persisted session. No request is sent to the server.`,
	Run: func(cmd *cobra.Command, args []string) {
		if exitCode := runLogout(os.Stdout); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns an exit code
func runLogout(w io.Writer) int {
	env := newAppEnv()

	if err := env.sessions.Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	fmt.Fprintln(w, "Signed out")
	return 0
}
