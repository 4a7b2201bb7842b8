package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilterClamp(t *testing.T) {
	tests := []struct {
		name      string
		in        ListFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults_kept", ListFilter{Page: 1, Limit: 10}, 1, 10},
		{"negative_page", ListFilter{Page: -5, Limit: 10}, 1, 10},
		{"zero_limit", ListFilter{Page: 2, Limit: 0}, 2, DefaultLimit},
		{"huge_limit", ListFilter{Page: 1, Limit: 99999}, 1, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Clamp()
			assert.Equal(t, tt.wantPage, tt.in.Page)
			assert.Equal(t, tt.wantLimit, tt.in.Limit)
		})
	}
}

func TestSkip(t *testing.T) {
	f := ListFilter{Page: 3, Limit: 10}
	assert.Equal(t, 20, f.Skip())
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, 2, NewPage(nil, 15, 10).TotalPages)
	assert.Equal(t, 1, NewPage(nil, 10, 10).TotalPages)
	assert.Equal(t, 0, NewPage(nil, 0, 10).TotalPages)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.Com "))
}

func TestNewFromCreateForm(t *testing.T) {
	f := CreateUserForm{Name: "Jo <b>", Email: "a@b.com"}

	u := NewFromCreateForm(f, "hash")

	assert.Equal(t, "Jo &lt;b&gt;", u.Name, "name is stored escaped")
	assert.Equal(t, RoleUser, u.Role, "role defaults to user")
	assert.True(t, u.IsActive, "new accounts start active")
	assert.Equal(t, "hash", u.Password)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestUpdateFormActive(t *testing.T) {
	assert.True(t, UpdateUserForm{IsActive: "true"}.Active())
	assert.False(t, UpdateUserForm{IsActive: "false"}.Active())
	assert.False(t, UpdateUserForm{IsActive: ""}.Active())
}
