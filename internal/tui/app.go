// ABOUTME: Root bubbletea model for the FileBox terminal client
// ABOUTME: Routes between auth and dashboard screens around the session lifecycle

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"filebox-cli/internal/client"
	"filebox-cli/internal/profile"
	"filebox-cli/internal/session"
	"filebox-cli/internal/tui/auth"
	"filebox-cli/internal/tui/dashboard"
	"filebox-cli/internal/tui/debuglog"
	"filebox-cli/internal/tui/icons"
	"filebox-cli/internal/tui/styles"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenDashboard
)

// Layout constants
const (
	minTerminalWidth = 60
	frameOverhead    = 4 // header, blank line, blank line, footer
)

// loginFinishedMsg is sent when a login attempt completes
type loginFinishedMsg struct {
	sess session.Session
	err  error
}

// registerFinishedMsg is sent when a registration attempt completes
type registerFinishedMsg struct {
	err error
}

// profileLoadedMsg is sent when the profile fetch completes
type profileLoadedMsg struct {
	user *client.User
	err  error
}

// profileSavedMsg is sent when a profile update completes
type profileSavedMsg struct {
	err error
}

// passwordChangedMsg is sent when a password change completes
type passwordChangedMsg struct {
	err error
}

// App is the root model for the TUI
type App struct {
	session  *session.Controller
	profiles *profile.Manager
	screen   Screen
	authView *auth.Auth
	dash     *dashboard.Dashboard
	spin     spinner.Model
	busy     bool
	width    int
	height   int
}

// New creates the root model. The mount guard runs here: with a stored
// session the app opens on the dashboard, otherwise on the auth screen.
func New(ctrl *session.Controller, profiles *profile.Manager) *App {
	a := &App{
		session:  ctrl,
		profiles: profiles,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if ctrl.Authenticated() {
		a.screen = ScreenDashboard
		a.dash = dashboard.New(a.contentWidth(), a.contentHeight())
	} else {
		a.screen = ScreenAuth
		a.authView = auth.New()
	}
	return a
}

// Init implements tea.Model. The dashboard fetches the profile before
// rendering anything user-specific; the auth screen just opens its form.
func (a *App) Init() tea.Cmd {
	if a.screen == ScreenDashboard {
		a.busy = true
		return tea.Batch(a.loadProfile(), a.spin.Tick)
	}
	return a.authView.Init()
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.dash != nil {
			a.dash.SetSize(a.contentWidth(), a.contentHeight())
		}
		if a.authView != nil {
			var cmd tea.Cmd
			a.authView, cmd = a.authView.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == ScreenDashboard && msg.String() == "q" && !a.dash.InDialog() {
			return a, tea.Quit
		}
		return a.routeToScreen(msg)

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case auth.SubmitLoginMsg:
		a.busy = true
		return a, tea.Batch(a.login(msg.Username, msg.Password), a.spin.Tick)

	case auth.SubmitRegisterMsg:
		a.busy = true
		return a, tea.Batch(a.register(msg.Request), a.spin.Tick)

	case loginFinishedMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("login", msg.err)
			return a, a.authView.SetError(client.Detail(msg.err,
				"Login failed. Please check your credentials."))
		}
		debuglog.Info("signed in", "username", msg.sess.Username)
		return a.enterDashboard()

	case registerFinishedMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("register", msg.err)
			return a, a.authView.SetError(client.Detail(msg.err,
				"Registration failed. Please try again."))
		}
		return a, a.authView.ShowLogin("Account created successfully. You can now sign in.")

	case profileLoadedMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("fetch profile", msg.err)
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return a.expireSession()
			}
			// Previous profile display stays untouched
			return a, a.dash.SetError(client.Detail(msg.err, "Could not load profile."))
		}
		a.dash.SetUser(msg.user)
		return a, nil

	case dashboard.SaveProfileMsg:
		a.busy = true
		return a, tea.Batch(a.saveProfile(msg.Update), a.spin.Tick)

	case profileSavedMsg:
		a.busy = false
		if msg.err != nil {
			debuglog.Error("update profile", msg.err)
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return a.expireSession()
			}
			// Dialog stays open so the user can correct and retry
			return a, a.dash.SetError(client.Detail(msg.err, "Could not update profile."))
		}
		a.dash.CloseDialog()
		a.dash.SetSuccess("Profile updated successfully.")
		a.busy = true
		return a, tea.Batch(a.loadProfile(), a.spin.Tick)

	case dashboard.SubmitPasswordMsg:
		a.busy = true
		return a, tea.Batch(a.changePassword(msg.Current, msg.New, msg.Confirm), a.spin.Tick)

	case passwordChangedMsg:
		a.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, profile.ErrPasswordMismatch) {
				return a, a.dash.SetError("New password and confirmation do not match.")
			}
			debuglog.Error("change password", msg.err)
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return a.expireSession()
			}
			return a, a.dash.SetError(client.Detail(msg.err, "Could not change password."))
		}
		a.dash.CloseDialog()
		a.dash.SetSuccess("Password changed successfully.")
		return a, nil

	case dashboard.RefreshMsg:
		a.busy = true
		return a, tea.Batch(a.loadProfile(), a.spin.Tick)

	case dashboard.LogoutMsg:
		if err := a.session.Logout(); err != nil {
			debuglog.Error("logout", err)
		}
		debuglog.Info("signed out")
		return a.showAuth("")

	default:
		// huh forms need to see their own internal messages
		return a.routeToScreen(msg)
	}
}

// routeToScreen forwards a message to the active screen model
func (a *App) routeToScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenAuth:
		if a.authView == nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.authView, cmd = a.authView.Update(msg)
		return a, cmd
	case ScreenDashboard:
		if a.dash == nil {
			return a, nil
		}
		var cmd tea.Cmd
		a.dash, cmd = a.dash.Update(msg)
		return a, cmd
	}
	return a, nil
}

// enterDashboard switches to the dashboard and fetches the profile
func (a *App) enterDashboard() (tea.Model, tea.Cmd) {
	a.screen = ScreenDashboard
	a.authView = nil
	a.dash = dashboard.New(a.contentWidth(), a.contentHeight())
	a.busy = true
	return a, tea.Batch(a.loadProfile(), a.spin.Tick)
}

// expireSession handles an observed 401: the gateway has already cleared
// the credential store, so only the redirect remains.
func (a *App) expireSession() (tea.Model, tea.Cmd) {
	debuglog.Info("session expired")
	return a.showAuth("Your session has expired. Please sign in again.")
}

// showAuth switches to the auth screen, optionally with an error banner
func (a *App) showAuth(errMsg string) (tea.Model, tea.Cmd) {
	a.screen = ScreenAuth
	a.dash = nil
	a.busy = false
	a.authView = auth.New()
	cmd := a.authView.Init()
	if errMsg != "" {
		cmd = a.authView.SetError(errMsg)
	}
	return a, cmd
}

// login runs the full login sequence off the UI goroutine
func (a *App) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		sess, err := a.session.Login(context.Background(), username, password)
		return loginFinishedMsg{sess: sess, err: err}
	}
}

// register submits a registration off the UI goroutine
func (a *App) register(req client.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		err := a.session.Register(context.Background(), &req)
		return registerFinishedMsg{err: err}
	}
}

// loadProfile fetches the current user's profile
func (a *App) loadProfile() tea.Cmd {
	return func() tea.Msg {
		user, err := a.profiles.FetchCurrent(context.Background())
		return profileLoadedMsg{user: user, err: err}
	}
}

// saveProfile submits a profile update
func (a *App) saveProfile(update client.ProfileUpdate) tea.Cmd {
	return func() tea.Msg {
		_, err := a.profiles.Update(context.Background(), &update)
		return profileSavedMsg{err: err}
	}
}

// changePassword submits a password change
func (a *App) changePassword(current, next, confirm string) tea.Cmd {
	return func() tea.Msg {
		err := a.profiles.ChangePassword(context.Background(), current, next, confirm)
		return passwordChangedMsg{err: err}
	}
}

// View implements tea.Model
func (a *App) View() string {
	var content string
	switch a.screen {
	case ScreenAuth:
		if a.authView != nil {
			content = a.authView.View()
		}
	case ScreenDashboard:
		if a.dash != nil {
			content = a.dash.View()
		}
	}

	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

// renderHeader draws the app title and the signed-in username
func (a *App) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Muted)

	left := fmt.Sprintf(" %s %s", icons.App, titleStyle.Render("FileBox"))

	right := ""
	if sess := a.session.Current(); sess.Active() {
		right = contextStyle.Render("@"+sess.Username) + " "
	}

	width := a.width
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	fill := width - lipgloss.Width(left) - lipgloss.Width(right)
	if fill < 1 {
		fill = 1
	}
	return left + strings.Repeat(" ", fill) + right
}

// renderFooter draws keyboard shortcuts for the active screen
func (a *App) renderFooter() string {
	var shortcuts []string
	switch a.screen {
	case ScreenAuth:
		shortcuts = []string{"tab Next field", "enter Submit", "ctrl+t Switch tab", "ctrl+c Quit"}
	case ScreenDashboard:
		if a.dash != nil && a.dash.InDialog() {
			shortcuts = []string{"tab Next field", "enter Save", "esc Cancel"}
		} else {
			shortcuts = []string{"e Edit profile", "p Password", "r Refresh", "s Sign out", "q Quit"}
		}
	}

	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		if len(parts) == 2 {
			styled = append(styled, styles.KeyStyle.Render(parts[0])+" "+
				styles.LabelStyle.Render(parts[1]))
		} else {
			styled = append(styled, s)
		}
	}

	footer := " " + strings.Join(styled, "  ")
	if a.busy {
		footer += "  " + a.spin.View()
	}
	return footer
}

// contentWidth is the width available to screen content
func (a *App) contentWidth() int {
	if a.width < minTerminalWidth {
		return minTerminalWidth
	}
	return a.width
}

// contentHeight is the height available to screen content
func (a *App) contentHeight() int {
	return a.height - frameOverhead
}

// Run starts the TUI over an established session controller
func Run(ctrl *session.Controller, profiles *profile.Manager) error {
	if err := debuglog.Init(session.DefaultConfigDir()); err == nil {
		defer debuglog.Close()
	}

	p := tea.NewProgram(
		New(ctrl, profiles),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
