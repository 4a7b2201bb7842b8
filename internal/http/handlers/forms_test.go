package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocoder89/userhub/internal/domain/user"
)

func TestValidateCreateForm(t *testing.T) {
	tests := []struct {
		name         string
		form         user.CreateUserForm
		wantMessages []string
	}{
		{
			name: "valid",
			form: user.CreateUserForm{Name: "Jo", Email: "a@b.com", Password: "123456"},
		},
		{
			name: "valid_without_password_and_role",
			form: user.CreateUserForm{Name: "Jordan", Email: "jordan@example.com"},
		},
		{
			name: "name_too_short_and_bad_email",
			form: user.CreateUserForm{Name: "A", Email: "bad-email", Password: "123456"},
			wantMessages: []string{
				"Name must be between 2 and 50 characters",
				"Please enter a valid email address",
			},
		},
		{
			name: "short_password",
			form: user.CreateUserForm{Name: "Jordan", Email: "a@b.com", Password: "123"},
			wantMessages: []string{
				"Password must be at least 6 characters",
			},
		},
		{
			name: "unknown_role",
			form: user.CreateUserForm{Name: "Jordan", Email: "a@b.com", Role: "root"},
			wantMessages: []string{
				"Role must be either admin or user",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateForm(tt.form)

			assert.Len(t, errs, len(tt.wantMessages))

			for i, want := range tt.wantMessages {
				assert.Equal(t, want, errs[i].Message)
			}
		})
	}
}

func TestValidateUpdateForm(t *testing.T) {
	form := user.UpdateUserForm{Name: "Jordan", Email: "a@b.com", Role: "admin", IsActive: "true"}
	assert.Empty(t, ValidateForm(form))

	form.IsActive = "yes"
	errs := ValidateForm(form)
	assert.Len(t, errs, 1)
	assert.Equal(t, "Active flag must be true or false", errs[0].Message)
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 1, queryInt("", 1))
	assert.Equal(t, 7, queryInt("7", 1))
	assert.Equal(t, 1, queryInt("abc", 1))
	assert.Equal(t, -2, queryInt("-2", 1)) // clamping is the filter's job
}
