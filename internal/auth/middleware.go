package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieName holds the admin session token.
const CookieName = "mess_admin"

const contextKey = "auth"

// Session resolves the caller's Context from the session cookie on every request.
func Session(g *Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(CookieName)
		c.Set(contextKey, g.Session(token))
		c.Next()
	}
}

// FromContext returns the Context placed by Session.
func FromContext(c *gin.Context) Context {
	v, _ := c.Get(contextKey)
	ac, _ := v.(Context)
	return ac
}

// AdminOnly aborts non-admin requests through deny.
func AdminOnly(deny gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !RequireAdmin(FromContext(c)) {
			_ = c.Error(ErrUnauthorized)
			deny(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetCookie stores token for the browser until expires.
func SetCookie(c *gin.Context, token string, expires time.Time, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(time.Until(expires).Seconds()), "/", "", secure, true)
}

// ClearCookie drops the session token.
func ClearCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", secure, true)
}
