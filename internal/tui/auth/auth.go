// ABOUTME: Authentication screen with login and register tabs
// ABOUTME: Emits submit messages to the root model; never talks to the network itself

package auth

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"filebox-cli/internal/client"
	"filebox-cli/internal/tui/icons"
	"filebox-cli/internal/tui/styles"
)

// Tab selects between the login and register forms
type Tab int

const (
	TabLogin Tab = iota
	TabRegister
)

// SubmitLoginMsg is emitted when the login form is confirmed
type SubmitLoginMsg struct {
	Username string
	Password string
}

// SubmitRegisterMsg is emitted when the register form is confirmed
type SubmitRegisterMsg struct {
	Request client.RegisterRequest
}

// Auth is the authentication screen model. Field values are transient:
// switching tabs resets them along with any messages.
type Auth struct {
	tab        Tab
	form       *huh.Form
	busy       bool
	errMsg     string
	successMsg string
	width      int

	username    string
	password    string
	fullName    string
	email       string
	description string
}

// New creates the auth screen showing the login tab
func New() *Auth {
	a := &Auth{tab: TabLogin}
	a.form = a.createForm()
	return a
}

// Init implements tea.Model
func (a *Auth) Init() tea.Cmd {
	return a.form.Init()
}

// Update handles keys and form progress. While a submission is in
// flight the form is frozen so the same action cannot be sent twice.
func (a *Auth) Update(msg tea.Msg) (*Auth, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width

	case tea.KeyMsg:
		if msg.String() == "ctrl+t" && !a.busy {
			a.switchTab()
			return a, a.form.Init()
		}
	}

	if a.busy {
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	if a.form.State == huh.StateCompleted {
		return a.submit()
	}

	return a, cmd
}

// submit freezes the screen and emits the appropriate submit message
func (a *Auth) submit() (*Auth, tea.Cmd) {
	a.busy = true
	a.errMsg = ""
	a.successMsg = ""

	if a.tab == TabLogin {
		msg := SubmitLoginMsg{Username: a.username, Password: a.password}
		return a, func() tea.Msg { return msg }
	}

	msg := SubmitRegisterMsg{Request: client.RegisterRequest{
		Username:    a.username,
		Password:    a.password,
		FullName:    a.fullName,
		Email:       a.email,
		Description: a.description,
	}}
	return a, func() tea.Msg { return msg }
}

// switchTab toggles between login and register, resetting the input
// buffer and any messages
func (a *Auth) switchTab() {
	if a.tab == TabLogin {
		a.tab = TabRegister
	} else {
		a.tab = TabLogin
	}
	a.reset()
	a.errMsg = ""
	a.successMsg = ""
}

// reset clears field values and rebuilds the form
func (a *Auth) reset() {
	a.username = ""
	a.password = ""
	a.fullName = ""
	a.email = ""
	a.description = ""
	a.form = a.createForm()
}

// SetError surfaces a failure and unfreezes the form so the user can
// retry without re-entering their input. Returns the rebuilt form's
// init command.
func (a *Auth) SetError(msg string) tea.Cmd {
	a.busy = false
	a.errMsg = msg
	a.successMsg = ""
	a.form = a.createForm()
	return a.form.Init()
}

// ShowLogin returns to the login tab with cleared fields and a
// confirmation message. Used after successful registration.
func (a *Auth) ShowLogin(successMsg string) tea.Cmd {
	a.busy = false
	a.tab = TabLogin
	a.reset()
	a.errMsg = ""
	a.successMsg = successMsg
	return a.form.Init()
}

// Busy reports whether a submission is in flight
func (a *Auth) Busy() bool {
	return a.busy
}

// ActiveTab returns the currently shown tab
func (a *Auth) ActiveTab() Tab {
	return a.tab
}

func (a *Auth) createForm() *huh.Form {
	if a.tab == TabLogin {
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Username").
					Value(&a.username).
					Validate(required("username")),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&a.password).
					Validate(required("password")),
			).Title("Sign in"),
		).WithTheme(huh.ThemeBase())
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&a.username).
				Validate(required("username")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&a.password).
				Validate(required("password")),
			huh.NewInput().
				Title("Full name").
				Value(&a.fullName).
				Validate(required("full name")),
			huh.NewInput().
				Title("Email").
				Value(&a.email).
				Validate(required("email")),
			huh.NewInput().
				Title("Description (optional)").
				Value(&a.description),
		).Title("Create account"),
	).WithTheme(huh.ThemeBase())
}

// required rejects empty input for the named field
func required(name string) func(string) error {
	return func(v string) error {
		if strings.TrimSpace(v) == "" {
			return errEmpty(name)
		}
		return nil
	}
}

type errEmpty string

func (e errEmpty) Error() string { return string(e) + " is required" }

// View renders the tab bar, any banner, and the active form
func (a *Auth) View() string {
	var sb strings.Builder

	sb.WriteString(a.renderTabs())
	sb.WriteString("\n\n")

	if a.errMsg != "" {
		sb.WriteString(styles.ErrorBanner.Render(icons.Critical.String() + " " + a.errMsg))
		sb.WriteString("\n\n")
	}
	if a.successMsg != "" {
		sb.WriteString(styles.SuccessBanner.Render(icons.CheckOK.String() + " " + a.successMsg))
		sb.WriteString("\n\n")
	}

	if a.busy {
		sb.WriteString(styles.Subtitle.Render("Contacting FileBox..."))
		sb.WriteString("\n")
	}

	sb.WriteString(a.form.View())

	return sb.String()
}

// renderTabs draws the Login / Create Account tab bar
func (a *Auth) renderTabs() string {
	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	login := "Login"
	register := "Create Account"
	if a.tab == TabLogin {
		login = active.Render(login)
		register = inactive.Render(register)
	} else {
		login = inactive.Render(login)
		register = active.Render(register)
	}

	hint := styles.Help.Render("ctrl+t to switch")
	return login + "   " + register + "   " + hint
}
