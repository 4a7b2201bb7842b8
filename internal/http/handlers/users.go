package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/flash"
	"github.com/geocoder89/userhub/internal/security"
)

// UsersStore is the persistence surface the handlers need. Both the mongodb
// and the in-memory repositories satisfy it.
type UsersStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	List(ctx context.Context, f user.ListFilter) ([]user.User, int, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Update(ctx context.Context, id string, f user.UpdateUserForm) (user.User, error)
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string, active bool) (user.User, error)
}

const listingPath = "/users"

type UsersHandler struct {
	store UsersStore
	flash *flash.Codec
	log   *slog.Logger
	dev   bool
}

func NewUsersHandler(store UsersStore, fc *flash.Codec, log *slog.Logger, dev bool) *UsersHandler {
	return &UsersHandler{
		store: store,
		flash: fc,
		log:   log,
		dev:   dev,
	}
}

// List renders one page of users. Paging inputs are clamped, a non-empty
// search narrows by name or email substring.
func (h *UsersHandler) List(ctx *gin.Context) {
	filter := user.ListFilter{
		Search: strings.TrimSpace(ctx.Query("search")),
		Page:   queryInt(ctx.Query("page"), 1),
		Limit:  queryInt(ctx.Query("limit"), user.DefaultLimit),
	}
	filter.Clamp()

	users, total, err := h.store.List(ctx.Request.Context(), filter)

	if err != nil {
		renderServerError(ctx, h.log, h.dev, err)
		return
	}

	page := user.NewPage(users, total, filter.Limit)

	render(ctx, http.StatusOK, "users/index", gin.H{
		"title":       "User Management",
		"users":       page.Users,
		"currentPage": filter.Page,
		"totalPages":  page.TotalPages,
		"total":       page.Total,
		"search":      filter.Search,
		"limit":       filter.Limit,
	})
}

func (h *UsersHandler) ShowCreateForm(ctx *gin.Context) {
	render(ctx, http.StatusOK, "users/create", gin.H{
		"title": "Create New User",
		"user":  user.CreateUserForm{},
	})
}

// Create validates the submitted form and inserts the user. Validation or
// uniqueness failures re-render the form with the submitted values; the
// record is only written when everything passed.
func (h *UsersHandler) Create(ctx *gin.Context) {
	var form user.CreateUserForm

	_ = ctx.ShouldBind(&form)
	form.Normalize()

	if errs := ValidateForm(form); len(errs) > 0 {
		render(ctx, http.StatusOK, "users/create", gin.H{
			"title":  "Create New User",
			"user":   form,
			"errors": errs,
		})
		return
	}

	hash := ""

	if form.Password != "" {
		var err error
		hash, err = security.HashPassword(form.Password)

		if err != nil {
			renderServerError(ctx, h.log, h.dev, err)
			return
		}
	}

	_, err := h.store.Create(ctx.Request.Context(), user.NewFromCreateForm(form, hash))

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			render(ctx, http.StatusOK, "users/create", gin.H{
				"title":  "Create New User",
				"user":   form,
				"errors": []FormError{{Message: "Email is already registered"}},
			})
			return
		}

		renderServerError(ctx, h.log, h.dev, err)
		return
	}

	h.flash.Success(ctx, "User created successfully")
	ctx.Redirect(http.StatusSeeOther, listingPath)
}

func (h *UsersHandler) Show(ctx *gin.Context) {
	u, err := h.store.GetByID(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	render(ctx, http.StatusOK, "users/show", gin.H{
		"title": "User Details",
		"user":  u,
	})
}

func (h *UsersHandler) ShowEditForm(ctx *gin.Context) {
	u, err := h.store.GetByID(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	render(ctx, http.StatusOK, "users/edit", gin.H{
		"title": "Edit User",
		"user":  u,
	})
}

// Update applies name, email, role and isActive. The password never changes
// through this path. On a rejected submission the edit form re-renders with
// the stored record merged under the submitted values.
func (h *UsersHandler) Update(ctx *gin.Context) {
	id := ctx.Param("id")

	var form user.UpdateUserForm

	_ = ctx.ShouldBind(&form)
	form.Normalize()

	if errs := ValidateForm(form); len(errs) > 0 {
		h.renderEditWith(ctx, id, form, errs)
		return
	}

	_, err := h.store.Update(ctx.Request.Context(), id, form)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			h.renderEditWith(ctx, id, form, []FormError{{Message: "Email is already registered by another user"}})
			return
		}

		h.missingOrFail(ctx, err)
		return
	}

	h.flash.Success(ctx, "User updated successfully")
	ctx.Redirect(http.StatusSeeOther, listingPath)
}

func (h *UsersHandler) Delete(ctx *gin.Context) {
	err := h.store.Delete(ctx.Request.Context(), ctx.Param("id"))

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	h.flash.Success(ctx, "User deleted successfully")
	ctx.Redirect(http.StatusSeeOther, listingPath)
}

// ToggleStatus flips isActive. The flash text follows the resulting state.
func (h *UsersHandler) ToggleStatus(ctx *gin.Context) {
	id := ctx.Param("id")

	u, err := h.store.GetByID(ctx.Request.Context(), id)

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	updated, err := h.store.SetActive(ctx.Request.Context(), id, !u.IsActive)

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	if updated.IsActive {
		h.flash.Success(ctx, "User activated successfully")
	} else {
		h.flash.Success(ctx, "User deactivated successfully")
	}

	ctx.Redirect(http.StatusSeeOther, listingPath)
}

// renderEditWith re-renders the edit form for a rejected update: the stored
// record supplies identity and timestamps, the submitted values win.
func (h *UsersHandler) renderEditWith(ctx *gin.Context, id string, form user.UpdateUserForm, errs []FormError) {
	existing, err := h.store.GetByID(ctx.Request.Context(), id)

	if err != nil {
		h.missingOrFail(ctx, err)
		return
	}

	existing.Name = form.Name
	existing.Email = form.Email
	existing.IsActive = form.Active()

	if form.Role != "" {
		existing.Role = form.Role
	}

	render(ctx, http.StatusOK, "users/edit", gin.H{
		"title":  "Edit User",
		"user":   existing,
		"errors": errs,
	})
}

// missingOrFail maps ErrNotFound to the flash-and-redirect contract and
// everything else to the 500 page.
func (h *UsersHandler) missingOrFail(ctx *gin.Context, err error) {
	if errors.Is(err, user.ErrNotFound) {
		h.flash.Error(ctx, "User not found")
		ctx.Redirect(http.StatusSeeOther, listingPath)
		return
	}

	renderServerError(ctx, h.log, h.dev, err)
}
