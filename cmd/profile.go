// ABOUTME: Profile command for the filebox CLI
// ABOUTME: Shows the profile or updates editable fields via flags

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"filebox-cli/internal/client"
)

var (
	profileFullName    string
	profileEmail       string
	profileDescription string
	profileImage       string
)

// profileEdits carries the flag values together with whether each flag
// was actually passed. An unset flag preserves the server value; a flag
// set to an empty string clears the field.
type profileEdits struct {
	fullName       string
	email          string
	description    string
	image          string
	setFullName    bool
	setEmail       bool
	setDescription bool
	setImage       bool
}

func (e *profileEdits) any() bool {
	return e.setFullName || e.setEmail || e.setDescription || e.setImage
}

// apply overlays the edited fields onto an update seeded from the
// current profile, so untouched fields keep their server values.
func (e *profileEdits) apply(update *client.ProfileUpdate) {
	if e.setFullName {
		update.FullName = e.fullName
	}
	if e.setEmail {
		update.Email = e.email
	}
	if e.setDescription {
		update.Description = e.description
	}
	if e.setImage {
		update.ProfileImage = e.image
	}
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	Long: `Show your profile, or update it by passing one or more field flags.
Passing a flag with an empty value clears that field.

Username and creation date are server-owned and cannot be changed.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		edits := &profileEdits{
			fullName:       profileFullName,
			email:          profileEmail,
			description:    profileDescription,
			image:          profileImage,
			setFullName:    cmd.Flags().Changed("full-name"),
			setEmail:       cmd.Flags().Changed("email"),
			setDescription: cmd.Flags().Changed("description"),
			setImage:       cmd.Flags().Changed("image"),
		}

		if exitCode := runProfile(ctx, os.Stdout, edits); exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	profileCmd.Flags().StringVar(&profileFullName, "full-name", "", "New full name")
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "New email address")
	profileCmd.Flags().StringVar(&profileDescription, "description", "", "New profile description")
	profileCmd.Flags().StringVar(&profileImage, "image", "", "New profile image URL")
	rootCmd.AddCommand(profileCmd)
}

// runProfile shows or updates the profile and returns an exit code.
// An update is seeded from the current profile before the edited fields
// are applied, then re-fetched so the output reflects what the server
// actually stored.
func runProfile(ctx context.Context, w io.Writer, edits *profileEdits) int {
	env := newAppEnv()

	if !env.sessions.Authenticated() {
		fmt.Fprintln(w, "Not signed in. Run \"filebox login\" first.")
		return 2
	}

	if edits.any() {
		current, err := env.profiles.FetchCurrent(ctx)
		if err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Detail(err, err.Error()))
			return 2
		}
		update := &client.ProfileUpdate{
			FullName:     current.FullName,
			Email:        current.Email,
			ProfileImage: current.ProfileImage,
			Description:  current.Description,
		}
		edits.apply(update)
		if _, err := env.profiles.Update(ctx, update); err != nil {
			fmt.Fprintf(w, "Error: %s\n", client.Detail(err, err.Error()))
			return 2
		}
		fmt.Fprintln(w, "Profile updated")
	}

	user, err := env.profiles.FetchCurrent(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %s\n", client.Detail(err, err.Error()))
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatUserJSON(user))
	} else {
		fmt.Fprintln(w, formatUserHuman(user))
	}
	return 0
}
