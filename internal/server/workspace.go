package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dovepeak/quotemaster/internal/apperror"
	"github.com/dovepeak/quotemaster/internal/config"
	"github.com/dovepeak/quotemaster/internal/workspace"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	WorkspaceHeader     = "X-Workspace-ID"
	WorkspaceCookieName = "_ws"

	workspaceCookieMaxAge = 365 * 24 * time.Hour
)

// WorkspaceCookies resolves the workspace of a request. Every browser gets its
// own workspace through a long-lived cookie; API clients may name one in the
// X-Workspace-ID header instead.
type WorkspaceCookies struct {
	secure bool
}

func NewWorkspaceCookies(cfg config.Config) *WorkspaceCookies {
	return &WorkspaceCookies{secure: cfg.CookieSecure}
}

func (w *WorkspaceCookies) read(c *gin.Context) (string, bool) {
	value, err := c.Cookie(WorkspaceCookieName)
	if err != nil {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, workspace.Valid(value)
}

func (w *WorkspaceCookies) set(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(WorkspaceCookieName, id, int(workspaceCookieMaxAge.Seconds()), "/", "", w.secure, true)
}

// Middleware puts the resolved workspace into the request context.
func (w *WorkspaceCookies) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(WorkspaceHeader))
		if id != "" && !workspace.Valid(id) {
			AbortWithError(c, apperror.Validation("invalid workspace",
				apperror.Field("workspace", "invalid_workspace", "workspace id may hold letters, digits, '-' and '_' only")))
			return
		}
		if id == "" {
			var ok bool
			if id, ok = w.read(c); !ok {
				id = uuid.NewString()
				w.set(c, id)
			}
		}

		c.Request = c.Request.WithContext(workspace.WithID(c.Request.Context(), id))
		c.Next()
	}
}
