package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextjob/nextjob/internal/store"
)

// tokenCookie is the transport-specific carrier used alongside the
// Authorization header. Both channels are accepted.
const tokenCookie = "token"

const currentUserKey = "httpapi.currentUser"

// RequireAuth is the authorization gate. It extracts the bearer token,
// resolves it to a live user record, and attaches the sanitized user to
// the request context. It always completes before any protected handler
// observes the request; on any failure the chain is aborted with 401 and
// downstream logic never runs.
func (a *API) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c)
		if !ok {
			a.unauthorized(c, "Unauthorized: No token provided")
			return
		}

		subject, ok := a.tokens.Verify(tok)
		if !ok {
			a.unauthorized(c, "Unauthorized: Invalid token")
			return
		}

		// The user is re-fetched on every request: a deleted account or a
		// changed role takes effect immediately, token reissue or not.
		user, err := a.users.GetByID(c.Request.Context(), subject)
		if err != nil {
			a.unauthorized(c, "Unauthorized: User not found")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// RequireRole forbids the request unless the authenticated user carries
// one of the given roles. Must run after RequireAuth.
func (a *API) RequireRole(roles ...store.Role) gin.HandlerFunc {
	allowed := make(map[store.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			a.unauthorized(c, "Unauthorized")
			return
		}
		if _, ok := allowed[user.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, envelope{
				Success: false,
				Message: "Forbidden: insufficient role",
			})
			return
		}
		c.Next()
	}
}

func (a *API) unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
		Success: false,
		Message: message,
	})
}

func bearerToken(c *gin.Context) (string, bool) {
	const bearer = "Bearer "
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, bearer) {
		if tok := header[len(bearer):]; tok != "" {
			return tok, true
		}
	}
	if tok, err := c.Cookie(tokenCookie); err == nil && tok != "" {
		return tok, true
	}
	return "", false
}

// currentUser returns the identity attached by RequireAuth, or nil on an
// unguarded route.
func currentUser(c *gin.Context) *store.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*store.User)
	return user
}

// requestLogger emits one structured line per request.
func (a *API) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// cors mirrors the original deployment: credentialed requests from the
// configured frontend origin.
func (a *API) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", a.frontendURL)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
