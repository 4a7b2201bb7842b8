package user

import (
	"html"
	"strings"
	"time"
)

// NormalizeEmail trims and lowercases an address so uniqueness checks and
// index lookups always see the same form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims the submitted fields and normalizes the email before the
// validators run, so length rules apply to the trimmed values.
func (f *CreateUserForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = NormalizeEmail(f.Email)
	f.Role = strings.TrimSpace(f.Role)
}

func (f *UpdateUserForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = NormalizeEmail(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	f.IsActive = strings.TrimSpace(f.IsActive)
}

// NewFromCreateForm builds a storable User from a normalized create form.
// The name is HTML-escaped at this point, the role falls back to "user" and
// new accounts start active. passwordHash is the bcrypt hash of the
// submitted password, never the plaintext.
func NewFromCreateForm(f CreateUserForm, passwordHash string) User {
	role := f.Role

	if role == "" {
		role = RoleUser
	}

	return User{
		Name:      html.EscapeString(f.Name),
		Email:     f.Email,
		Password:  passwordHash,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
}
