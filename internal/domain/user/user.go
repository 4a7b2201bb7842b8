package user

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

// User is the stored document. Password holds the bcrypt hash and is
// stripped by a projection on every read path, so a User coming out of a
// repository never carries it.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password,omitempty" json:"-"`
	Role      string             `bson:"role" json:"role"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateUserForm carries the raw create form fields. Validation tags run
// against the normalized values.
type CreateUserForm struct {
	Name     string `form:"name" validate:"required,min=2,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	Role     string `form:"role" validate:"omitempty,oneof=admin user"`
}

// UpdateUserForm carries the raw edit form fields. Password is absent on
// purpose: it cannot be changed through the update path.
type UpdateUserForm struct {
	Name     string `form:"name" validate:"required,min=2,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Role     string `form:"role" validate:"omitempty,oneof=admin user"`
	IsActive string `form:"isActive" validate:"omitempty,oneof=true false"`
}

// Active reports the submitted isActive value. Anything other than the
// literal "true" counts as false.
func (f UpdateUserForm) Active() bool {
	return f.IsActive == "true"
}

// ListFilter is the paging and search input for the listing operation.
type ListFilter struct {
	Search string
	Page   int
	Limit  int
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Clamp normalizes paging inputs. Non-positive pages become 1, non-positive
// limits fall back to the default and oversized limits are capped.
func (f *ListFilter) Clamp() {
	if f.Page < 1 {
		f.Page = 1
	}

	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}

	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
}

func (f ListFilter) Skip() int {
	return (f.Page - 1) * f.Limit
}

// Page is one page of listing results.
type Page struct {
	Users      []User
	Total      int
	TotalPages int
}

func NewPage(users []User, total, limit int) Page {
	totalPages := 0

	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Page{
		Users:      users,
		Total:      total,
		TotalPages: totalPages,
	}
}
