package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "uh_flash"
	ctxKey     = "flash"

	// a flash only needs to survive the single redirect hop
	cookieMaxAge = 300
)

// Flash is the one-shot status state carried across a redirect. The fields
// are enumerated on purpose: there is no open-ended session bag behind it.
type Flash struct {
	Success string `json:"success,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (f Flash) IsZero() bool {
	return f.Success == "" && f.Error == ""
}

// Codec signs and verifies the flash cookie with HMAC-SHA256 so a client
// cannot forge status banners.
type Codec struct {
	secret []byte
	secure bool
}

func NewCodec(secret string, secure bool) *Codec {
	return &Codec{
		secret: []byte(secret),
		secure: secure,
	}
}

// Middleware pops the flash cookie before routing: verify, expose on the
// gin context for this request only, clear. A handler that sets a fresh
// flash afterwards overwrites the clearing Set-Cookie.
func (c *Codec) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		raw, err := ctx.Cookie(cookieName)

		if err == nil && raw != "" {
			f, ok := c.decode(raw)

			if ok && !f.IsZero() {
				ctx.Set(ctxKey, f)
			}

			c.clear(ctx)
		}

		ctx.Next()
	}
}

// From returns the flash popped by the middleware, zero when none arrived.
func From(ctx *gin.Context) Flash {
	v, ok := ctx.Get(ctxKey)

	if !ok {
		return Flash{}
	}

	f, ok := v.(Flash)

	if !ok {
		return Flash{}
	}

	return f
}

// Success queues a success message for the next rendered page.
func (c *Codec) Success(ctx *gin.Context, msg string) {
	c.set(ctx, Flash{Success: msg})
}

// Error queues an error message for the next rendered page.
func (c *Codec) Error(ctx *gin.Context, msg string) {
	c.set(ctx, Flash{Error: msg})
}

func (c *Codec) set(ctx *gin.Context, f Flash) {
	ctx.SetCookie(cookieName, c.encode(f), cookieMaxAge, "/", "", c.secure, true)
}

func (c *Codec) clear(ctx *gin.Context) {
	ctx.SetCookie(cookieName, "", -1, "/", "", c.secure, true)
}

func (c *Codec) encode(f Flash) string {
	payload, err := json.Marshal(f)

	if err != nil {
		return ""
	}

	body := base64.RawURLEncoding.EncodeToString(payload)

	return body + "." + c.sign(body)
}

func (c *Codec) decode(raw string) (Flash, bool) {
	body, sig, ok := strings.Cut(raw, ".")

	if !ok {
		return Flash{}, false
	}

	if !hmac.Equal([]byte(c.sign(body)), []byte(sig)) {
		return Flash{}, false
	}

	payload, err := base64.RawURLEncoding.DecodeString(body)

	if err != nil {
		return Flash{}, false
	}

	var f Flash

	err = json.Unmarshal(payload, &f)

	if err != nil {
		return Flash{}, false
	}

	return f, true
}

func (c *Codec) sign(body string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(body))

	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
