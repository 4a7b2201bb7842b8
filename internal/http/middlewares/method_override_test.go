package middlewares

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testMaxForm = 64 << 10

func TestMethodOverride(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		contentType string
		form        url.Values
		wantMethod  string
	}{
		{
			name:        "post_with_put_override",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			form:        url.Values{"_method": {"PUT"}},
			wantMethod:  http.MethodPut,
		},
		{
			name:        "lowercase_override_accepted",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			form:        url.Values{"_method": {"delete"}},
			wantMethod:  http.MethodDelete,
		},
		{
			name:        "get_never_overridden",
			method:      http.MethodGet,
			contentType: "application/x-www-form-urlencoded",
			form:        url.Values{"_method": {"PUT"}},
			wantMethod:  http.MethodGet,
		},
		{
			name:        "unknown_method_ignored",
			method:      http.MethodPost,
			contentType: "application/x-www-form-urlencoded",
			form:        url.Values{"_method": {"TRACE"}},
			wantMethod:  http.MethodPost,
		},
		{
			name:        "non_form_body_untouched",
			method:      http.MethodPost,
			contentType: "application/json",
			form:        url.Values{"_method": {"PUT"}},
			wantMethod:  http.MethodPost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string

			h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Method
			}), testMaxForm)

			req := httptest.NewRequest(tt.method, "/", strings.NewReader(tt.form.Encode()))
			req.Header.Set("Content-Type", tt.contentType)

			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantMethod, got)
		})
	}
}

func TestMethodOverridePreservesFormFields(t *testing.T) {
	var name string

	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		name = r.PostForm.Get("name")
	}), testMaxForm)

	form := url.Values{"_method": {"PUT"}, "name": {"Alice"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "Alice", name)
}

func TestMethodOverrideRejectsOversizedForm(t *testing.T) {
	reached := false

	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}), testMaxForm)

	form := url.Values{"name": {strings.Repeat("a", 1<<20)}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, reached, "oversized form must not reach the router")
}

func TestMethodOverrideAllowsBodyAtLimit(t *testing.T) {
	var got string

	h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.PostForm.Get("name")
	}), testMaxForm)

	form := url.Values{"name": {strings.Repeat("a", 1024)}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, got, 1024)
}
