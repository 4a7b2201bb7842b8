package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/http/flash"
)

// render writes an HTML view, merging the popped flash messages into the
// context unless the handler already supplied its own.
func render(ctx *gin.Context, status int, name string, data gin.H) {
	f := flash.From(ctx)

	if _, ok := data["success"]; !ok {
		data["success"] = f.Success
	}

	if _, ok := data["error"]; !ok {
		data["error"] = f.Error
	}

	ctx.HTML(status, name, data)
}

// renderServerError is the catch-all for infrastructure failures: log, then
// a generic 500 page. The underlying error is only shown in dev.
func renderServerError(ctx *gin.Context, log *slog.Logger, dev bool, err error) {
	reqID, _ := ctx.Get("request_id")
	log.Error("request failed", "err", err, "path", ctx.Request.URL.Path, "request_id", reqID)

	detail := ""

	if dev && err != nil {
		detail = err.Error()
	}

	ctx.HTML(http.StatusInternalServerError, "error", gin.H{
		"title":   "Error",
		"message": "Something went wrong",
		"detail":  detail,
	})
	ctx.Abort()
}

// RecoveryHandler renders the same generic error page for recovered panics.
func RecoveryHandler(log *slog.Logger, dev bool) gin.RecoveryFunc {
	return func(ctx *gin.Context, recovered interface{}) {
		renderServerError(ctx, log, dev, fmt.Errorf("panic: %v", recovered))
	}
}
