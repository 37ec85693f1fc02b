package auth

import (
	"time"

	"github.com/yanqian/jungle-board/internal/domain/session"
)

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the board API's answer to a successful login.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        session.User `json:"user"`
}

// RegisterRequest captures the sign-up form.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	BirthDate       string `json:"birthDate"`
	Phone           string `json:"phone"`
	Cohort          int    `json:"cohort"`
	StudentNumber   string `json:"studentNumber"`
}

// RegisterPayload is a validated RegisterRequest as sent to the API.
type RegisterPayload struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	BirthDate     string `json:"birthDate"`
	Phone         string `json:"phone"`
	Cohort        int    `json:"cohort"`
	StudentNumber string `json:"studentNumber"`
}

// SessionView reports who is signed in.
type SessionView struct {
	Authenticated bool          `json:"authenticated"`
	User          *session.User `json:"user,omitempty"`
	ExpiresAt     *time.Time    `json:"expiresAt,omitempty"`
}
