package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/GTDGit/gtd_portal/internal/auth"
)

// Context keys set by SessionMiddleware.
const (
	SessionIDKey   = "session_id"
	AuthContextKey = "auth_context"
)

// SessionMiddleware assigns every browser a session cookie and resolves the
// session's credential context for downstream handlers.
type SessionMiddleware struct {
	store      *auth.Store
	cookieName string
	secure     bool
}

// NewSessionMiddleware constructs a SessionMiddleware.
func NewSessionMiddleware(store *auth.Store, cookieName string, secure bool) *SessionMiddleware {
	return &SessionMiddleware{store: store, cookieName: cookieName, secure: secure}
}

func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(m.cookieName)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(m.cookieName, sid, 0, "/", "", m.secure, true)
		}

		c.Set(SessionIDKey, sid)
		c.Set(AuthContextKey, m.store.Context(sid))
		c.Next()
	}
}

// AuthContext returns the credential context resolved for the request.
func AuthContext(c *gin.Context) auth.Context {
	if v, ok := c.Get(AuthContextKey); ok {
		if ac, ok := v.(auth.Context); ok {
			return ac
		}
	}
	return auth.Context{}
}
