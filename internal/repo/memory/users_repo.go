package memory

import (
	"context"
	"html"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/geocoder89/userhub/internal/domain/user"
)

// UsersRepo is an in-memory store with the same contract as the mongodb
// repository: unique emails, createdAt-descending listing and password-free
// reads. Handler tests run against it.
type UsersRepo struct {
	mu    sync.RWMutex
	items map[string]user.User
}

func NewUsersRepo() *UsersRepo {
	return &UsersRepo{
		items: make(map[string]user.User),
	}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}

	r.items[u.ID.Hex()] = u

	return redact(u), nil
}

func (r *UsersRepo) List(ctx context.Context, filter user.ListFilter) ([]user.User, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]user.User, 0, len(r.items))
	needle := strings.ToLower(filter.Search)

	for _, u := range r.items {
		if needle != "" &&
			!strings.Contains(strings.ToLower(u.Name), needle) &&
			!strings.Contains(strings.ToLower(u.Email), needle) {
			continue
		}

		matched = append(matched, redact(u))
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID.Hex() > matched[j].ID.Hex()
		}

		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	start := filter.Skip()

	if start > total {
		start = total
	}

	end := start + filter.Limit

	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return redact(u), nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, f user.UpdateUserForm) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	for otherID, other := range r.items {
		if otherID != id && other.Email == f.Email {
			return user.User{}, user.ErrEmailTaken
		}
	}

	u.Name = html.EscapeString(f.Name)
	u.Email = f.Email
	u.IsActive = f.Active()

	if f.Role != "" {
		u.Role = f.Role
	}

	r.items[id] = u

	return redact(u), nil
}

func (r *UsersRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return user.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *UsersRepo) SetActive(ctx context.Context, id string, active bool) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	u.IsActive = active
	r.items[id] = u

	return redact(u), nil
}

func redact(u user.User) user.User {
	u.Password = ""
	return u
}
