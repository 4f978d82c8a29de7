// ABOUTME: Dashboard screen showing the user's profile with edit and password dialogs
// ABOUTME: Emits save/refresh/logout messages to the root model

package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"filebox-cli/internal/client"
	"filebox-cli/internal/tui/icons"
	"filebox-cli/internal/tui/styles"
)

// Mode is the dashboard's dialog state
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
	ModePassword
)

// SaveProfileMsg is emitted when the edit dialog is confirmed
type SaveProfileMsg struct {
	Update client.ProfileUpdate
}

// SubmitPasswordMsg is emitted when the password dialog is confirmed.
// Confirmation matching is validated by the profile manager, not here.
type SubmitPasswordMsg struct {
	Current string
	New     string
	Confirm string
}

// RefreshMsg requests a fresh profile fetch
type RefreshMsg struct{}

// LogoutMsg requests an explicit sign-out
type LogoutMsg struct{}

// Dashboard renders the authenticated user's profile and hosts the
// edit-profile and change-password dialogs.
type Dashboard struct {
	user       *client.User
	mode       Mode
	form       *huh.Form
	busy       bool
	errMsg     string
	successMsg string
	width      int
	height     int

	// Edit dialog buffer, seeded from the fetched profile
	fullName     string
	email        string
	profileImage string
	description  string

	// Password dialog buffer
	currentPass string
	newPass     string
	confirmPass string
}

// New creates an empty dashboard; the profile arrives via SetUser
func New(width, height int) *Dashboard {
	return &Dashboard{width: width, height: height}
}

// SetSize updates the rendering dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetUser replaces the displayed profile and reseeds the edit buffer.
// Called only on successful fetches, so a failed fetch never partially
// overwrites what the user sees.
func (d *Dashboard) SetUser(user *client.User) {
	d.user = user
	d.fullName = user.FullName
	d.email = user.Email
	d.profileImage = user.ProfileImage
	d.description = user.Description
	d.busy = false
}

// SetError surfaces a failure. If a dialog is open it stays open with
// its field values intact so the user can retry.
func (d *Dashboard) SetError(msg string) tea.Cmd {
	d.busy = false
	d.errMsg = msg
	d.successMsg = ""
	if d.mode != ModeView {
		d.form = d.createForm()
		return d.form.Init()
	}
	return nil
}

// SetSuccess shows a confirmation message
func (d *Dashboard) SetSuccess(msg string) {
	d.busy = false
	d.successMsg = msg
	d.errMsg = ""
}

// CloseDialog returns to the profile view and drops dialog state,
// including any typed passwords.
func (d *Dashboard) CloseDialog() {
	d.mode = ModeView
	d.form = nil
	d.busy = false
	d.currentPass = ""
	d.newPass = ""
	d.confirmPass = ""
}

// InDialog reports whether a dialog is open
func (d *Dashboard) InDialog() bool {
	return d.mode != ModeView
}

// Busy reports whether a mutation is in flight
func (d *Dashboard) Busy() bool {
	return d.busy
}

// Update handles keys and dialog form progress
func (d *Dashboard) Update(msg tea.Msg) (*Dashboard, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && d.mode == ModeView {
		return d.updateView(key)
	}

	if d.busy {
		return d, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		d.CloseDialog()
		return d, nil
	}

	if d.form == nil {
		return d, nil
	}

	form, cmd := d.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		d.form = f
	}

	if d.form.State == huh.StateAborted {
		d.CloseDialog()
		return d, nil
	}
	if d.form.State == huh.StateCompleted {
		return d.submitDialog()
	}

	return d, cmd
}

// updateView handles shortcuts on the profile view
func (d *Dashboard) updateView(key tea.KeyMsg) (*Dashboard, tea.Cmd) {
	if d.busy {
		return d, nil
	}

	switch key.String() {
	case "e":
		if d.user != nil {
			return d.openDialog(ModeEdit)
		}
	case "p":
		if d.user != nil {
			return d.openDialog(ModePassword)
		}
	case "r":
		d.errMsg = ""
		d.successMsg = ""
		d.busy = true
		return d, func() tea.Msg { return RefreshMsg{} }
	case "s":
		return d, func() tea.Msg { return LogoutMsg{} }
	}
	return d, nil
}

func (d *Dashboard) openDialog(mode Mode) (*Dashboard, tea.Cmd) {
	d.mode = mode
	d.errMsg = ""
	d.successMsg = ""
	d.form = d.createForm()
	return d, d.form.Init()
}

// submitDialog freezes the dialog and emits its message
func (d *Dashboard) submitDialog() (*Dashboard, tea.Cmd) {
	d.busy = true
	d.errMsg = ""
	d.successMsg = ""

	if d.mode == ModeEdit {
		msg := SaveProfileMsg{Update: client.ProfileUpdate{
			FullName:     d.fullName,
			Email:        d.email,
			ProfileImage: d.profileImage,
			Description:  d.description,
		}}
		return d, func() tea.Msg { return msg }
	}

	msg := SubmitPasswordMsg{
		Current: d.currentPass,
		New:     d.newPass,
		Confirm: d.confirmPass,
	}
	return d, func() tea.Msg { return msg }
}

func (d *Dashboard) createForm() *huh.Form {
	if d.mode == ModeEdit {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Full name").
					Value(&d.fullName),
				huh.NewInput().
					Title("Email").
					Value(&d.email),
				huh.NewInput().
					Title("Description").
					Value(&d.description),
				huh.NewInput().
					Title("Profile image URL").
					Value(&d.profileImage),
			).Title("Edit Profile").
				Description("Esc to cancel"),
		).WithTheme(huh.ThemeBase())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current password").
				EchoMode(huh.EchoModePassword).
				Value(&d.currentPass),
			huh.NewInput().
				Title("New password").
				EchoMode(huh.EchoModePassword).
				Value(&d.newPass),
			huh.NewInput().
				Title("Confirm new password").
				EchoMode(huh.EchoModePassword).
				Value(&d.confirmPass),
		).Title("Change Password").
			Description("Esc to cancel"),
	).WithTheme(huh.ThemeBase())
}

// View renders the profile panel or the active dialog
func (d *Dashboard) View() string {
	var sb strings.Builder

	if d.errMsg != "" {
		sb.WriteString(styles.ErrorBanner.Render(icons.Critical.String() + " " + d.errMsg))
		sb.WriteString("\n\n")
	}
	if d.successMsg != "" {
		sb.WriteString(styles.SuccessBanner.Render(icons.CheckOK.String() + " " + d.successMsg))
		sb.WriteString("\n\n")
	}

	if d.mode != ModeView && d.form != nil {
		sb.WriteString(d.form.View())
		return styles.ActivePanel.Width(d.panelWidth()).Render(sb.String())
	}

	sb.WriteString(d.renderProfile())
	return styles.Panel.Width(d.panelWidth()).Render(sb.String())
}

// renderProfile draws the profile fields
func (d *Dashboard) renderProfile() string {
	if d.user == nil {
		return styles.Subtitle.Render("Loading profile...")
	}

	name := d.user.FullName
	if name == "" {
		name = d.user.Username
	}

	var sb strings.Builder
	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s  Welcome, %s!", icons.Person, name)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("@" + d.user.Username))
	sb.WriteString("\n\n")

	sb.WriteString(d.field(icons.Mail.String(), "Email", d.user.Email))
	sb.WriteString(d.field(icons.Calendar.String(), "Member since", memberSince(d.user.CreatedAt)))
	sb.WriteString(d.field(icons.Note.String(), "Description", orNone(d.user.Description)))
	sb.WriteString(d.field(icons.Image.String(), "Avatar", orNone(d.user.ProfileImage)))

	if d.busy {
		sb.WriteString("\n")
		sb.WriteString(styles.Subtitle.Render("Refreshing..."))
	}

	return sb.String()
}

func (d *Dashboard) field(icon, label, value string) string {
	return fmt.Sprintf("%s %s %s\n", icon,
		styles.LabelStyle.Render(label+":"), styles.ValueStyle.Render(value))
}

func (d *Dashboard) panelWidth() int {
	if d.width <= 4 {
		return 76
	}
	return d.width - 4
}

// memberSince formats the server's created_at timestamp for display
func memberSince(createdAt string) string {
	if createdAt == "" {
		return "unknown"
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, createdAt); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return createdAt
}

func orNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}
