// ABOUTME: Request and response types for the FileBox API
// ABOUTME: Field names follow the server's JSON contract

package client

// TokenResponse is returned by POST /api/token on successful login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterRequest is the payload for POST /api/register
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Description string `json:"description"`
}

// RegisterResponse is returned by POST /api/register.
// The token is issued by the server but deliberately not used by this
// client: a fresh login is required after registration.
type RegisterResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
}

// User represents the authenticated user's profile from GET /api/users/me
type User struct {
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image"`
	Description  string `json:"description"`
	CreatedAt    string `json:"created_at"`
}

// ProfileUpdate carries the editable profile fields for PUT /api/users/me.
// Username and created_at are server-owned and cannot be changed.
// All four fields are always sent: callers seed the update from the
// current profile, so an empty string means "clear this field", not
// "leave it alone".
type ProfileUpdate struct {
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	ProfileImage string `json:"profile_image"`
	Description  string `json:"description"`
}

// PasswordChange is the payload for PUT /api/users/me/password.
// Confirmation is validated client-side and never sent to the server.
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
