// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"inkpress/internal/apperr"
	"inkpress/internal/models"
	"inkpress/internal/policy"
	"inkpress/internal/session"
)

const (
	minPasswordLen = 6
	maxUsernameLen = 30
	totpIssuer     = "inkpress"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	FindByID(id uuid.UUID) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	List() ([]models.User, error)
	Create(username, email, password string, role models.Role) (*models.User, error)
	UpdateRole(id uuid.UUID, role models.Role) error
	UpdatePassword(id uuid.UUID, password string) error
	SetTOTPSecret(id uuid.UUID, secret string) error
	EnableTOTP(id uuid.UUID) error
	CheckPassword(user *models.User, password string) bool
}

// TokenStore issues and revokes opaque bearer credentials.
type TokenStore interface {
	Create(ctx context.Context, data *session.Data) (string, error)
	Destroy(ctx context.Context, token string) error
}

// Auth implements registration, login, token revocation, optional TOTP
// two-factor for admins, and admin user management.
type Auth struct {
	users  UserStore
	tokens TokenStore
}

// NewAuth creates the auth service.
func NewAuth(users UserStore, tokens TokenStore) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// AuthResult is a successful register/login outcome.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterInput carries the registration fields. Role is always "user";
// admins are promoted by another admin.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a user account and issues a bearer token. The password
// is hashed by the store; plaintext is never persisted or logged.
func (s *Auth) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "Username is required."
	} else if utf8.RuneCountInString(in.Username) > maxUsernameLen {
		fields["username"] = "Username is too long (max 30 characters)."
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		fields["email"] = "A valid email is required."
	}
	if utf8.RuneCountInString(in.Password) < minPasswordLen {
		fields["password"] = "Password must be at least 6 characters."
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid registration", fields)
	}

	user, err := s.users.Create(in.Username, in.Email, in.Password, models.RoleUser)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperr.Storage(err)
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// LoginInput carries the login fields. TOTPCode is required only for
// accounts with two-factor enabled.
type LoginInput struct {
	Email    string
	Password string
	TOTPCode string
}

// Login verifies credentials and issues a bearer token. Invalid email,
// password, or TOTP code all produce the same Unauthenticated error so
// the response does not reveal which part failed.
func (s *Auth) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, apperr.Validation("invalid login", map[string]string{
			"email":    "Email is required.",
			"password": "Password is required.",
		})
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil || !s.users.CheckPassword(user, in.Password) {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !totp.Validate(in.TOTPCode, *user.TOTPSecret) {
			return nil, apperr.Unauthenticated("invalid two-factor code")
		}
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the given bearer token.
func (s *Auth) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Destroy(ctx, token); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// Me returns the account behind the actor.
func (s *Auth) Me(actor *policy.Actor) (*models.User, error) {
	if actor == nil {
		return nil, apperr.Unauthenticated("authentication required")
	}
	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}
	return user, nil
}

// TwoFASetup is the enrollment payload: the shared secret, the otpauth
// provisioning URL, and a QR code of that URL as base64 PNG.
type TwoFASetup struct {
	Secret    string `json:"secret"`
	URL       string `json:"url"`
	QRCodePNG string `json:"qr_code_png"`
}

// Setup2FA generates and stores a TOTP secret for an admin account and
// returns the provisioning QR code. Enrollment completes on Verify2FA.
func (s *Auth) Setup2FA(actor *policy.Actor) (*TwoFASetup, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}

	if err := s.users.SetTOTPSecret(user.ID, key.Secret()); err != nil {
		return nil, apperr.Storage(err)
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Storage(err)
	}

	return &TwoFASetup{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRCodePNG: base64.StdEncoding.EncodeToString(qrPNG),
	}, nil
}

// Verify2FA validates the first TOTP code and activates two-factor for
// the account.
func (s *Auth) Verify2FA(actor *policy.Actor, code string) error {
	if err := policy.CanManageUsers(actor); err != nil {
		return err
	}

	user, err := s.users.FindByID(actor.ID)
	if err != nil {
		return apperr.Storage(err)
	}
	if user == nil {
		return apperr.Unauthenticated("account no longer exists")
	}
	if user.TOTPSecret == nil {
		return apperr.Validation("two-factor not set up", map[string]string{
			"code": "Run setup before verifying.",
		})
	}
	if !totp.Validate(code, *user.TOTPSecret) {
		return apperr.Unauthenticated("invalid two-factor code")
	}

	if err := s.users.EnableTOTP(user.ID); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// ListUsers returns every account. Admin only.
func (s *Auth) ListUsers(actor *policy.Actor) ([]models.User, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}
	users, err := s.users.List()
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// SetRole changes an account's role. Admin only.
func (s *Auth) SetRole(actor *policy.Actor, id uuid.UUID, role string) (*models.User, error) {
	if err := policy.CanManageUsers(actor); err != nil {
		return nil, err
	}

	target := models.Role(role)
	if !target.Valid() {
		return nil, apperr.Validation("invalid role", map[string]string{
			"role": "Role must be user or admin.",
		})
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	if err := s.users.UpdateRole(id, target); err != nil {
		return nil, apperr.Storage(err)
	}
	return s.users.FindByID(id)
}

// SetPassword replaces an account's password. Admin only.
func (s *Auth) SetPassword(actor *policy.Actor, id uuid.UUID, password string) error {
	if err := policy.CanManageUsers(actor); err != nil {
		return err
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return apperr.Validation("invalid password", map[string]string{
			"password": "Password must be at least 6 characters.",
		})
	}

	user, err := s.users.FindByID(id)
	if err != nil {
		return apperr.Storage(err)
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}

	if err := s.users.UpdatePassword(id, password); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// issueToken mints a bearer token for the user.
func (s *Auth) issueToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.Create(ctx, &session.Data{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
	})
	if err != nil {
		return "", apperr.Storage(err)
	}
	return token, nil
}
