package http

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/flash"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
)

const maxFormBytes = 64 << 10

// Deps carries everything the router wires together. Prom, Metrics, Ping
// and Limiter may be nil (tests run without them).
type Deps struct {
	Log           *slog.Logger
	Cfg           config.Config
	Store         handlers.UsersStore
	Flash         *flash.Codec
	Prom          *observability.Prom
	Metrics       http.Handler
	Ping          func() error
	Limiter       *middlewares.RateLimiter
	TemplatesGlob string
}

// NewRouter builds the full HTTP surface. The returned handler is already
// wrapped with the method-override layer so HTML forms can reach the
// PUT/PATCH/DELETE routes.
func NewRouter(d Deps) http.Handler {
	if !d.Cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.CustomRecovery(handlers.RecoveryHandler(d.Log, d.Cfg.IsDev())))
	r.Use(RequestID())
	r.Use(RequestLogger(d.Log))
	r.Use(otelgin.Middleware("userhub"))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())
	// caps non-form bodies; form posts are capped in MethodOverride below
	r.Use(middlewares.MaxBodyBytes(maxFormBytes))
	r.Use(d.Flash.Middleware())

	r.SetFuncMap(TemplateFuncs())

	if d.TemplatesGlob != "" {
		r.LoadHTMLGlob(d.TemplatesGlob)
	}

	health := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", health.Healthz)
	r.GET("/readyz", health.Readyz)

	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics))
	}

	u := handlers.NewUsersHandler(d.Store, d.Flash, d.Log, d.Cfg.IsDev())

	r.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/users")
	})

	var mutating gin.HandlerFunc

	if d.Limiter != nil {
		mutating = d.Limiter.Middleware()
	} else {
		mutating = func(ctx *gin.Context) { ctx.Next() }
	}

	users := r.Group("/users")
	{
		users.GET("", u.List)
		users.GET("/create", u.ShowCreateForm)
		users.POST("", mutating, u.Create)
		users.GET("/:id", u.Show)
		users.GET("/:id/edit", u.ShowEditForm)
		users.PUT("/:id", mutating, u.Update)
		users.DELETE("/:id", mutating, u.Delete)
		users.PATCH("/:id/toggle-status", mutating, u.ToggleStatus)
	}

	return middlewares.MethodOverride(r, maxFormBytes)
}

// TemplateFuncs is the FuncMap the templates rely on for pagination links.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}
