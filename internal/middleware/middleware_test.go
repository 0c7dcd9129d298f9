package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/gtd_portal/internal/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionMiddleware_IssuesAndReusesCookie(t *testing.T) {
	store := auth.NewStore(nil, auth.NewMemorySlot(), time.Hour, time.Hour)
	r := gin.New()
	r.Use(NewSessionMiddleware(store, "gtd_session", false).Handle())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, AuthContext(c).SessionID())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "gtd_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, cookies[0].Value, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, cookies[0].Value, w2.Body.String())
	assert.Empty(t, w2.Result().Cookies())
}

func TestSessionMiddleware_ReplacesForgedCookie(t *testing.T) {
	store := auth.NewStore(nil, auth.NewMemorySlot(), time.Hour, time.Hour)
	r := gin.New()
	r.Use(NewSessionMiddleware(store, "gtd_session", false).Handle())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(SessionIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "gtd_session", Value: "../../etc"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEqual(t, "../../etc", w.Body.String())
	assert.Len(t, w.Result().Cookies(), 1)
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"portal.gtd.co.id"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://portal.gtd.co.id:443")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://portal.gtd.co.id:443", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestInvalidAuthRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewInvalidAuthRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.False(t, rl.Blocked("1.1.1.1"))
	rl.RecordFailure("1.1.1.1")
	rl.RecordFailure("1.1.1.1")
	assert.True(t, rl.Blocked("1.1.1.1"))
	assert.False(t, rl.Blocked("2.2.2.2"))

	now = now.Add(2 * time.Minute)
	assert.False(t, rl.Blocked("1.1.1.1"))
}
