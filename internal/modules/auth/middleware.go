package auth

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/config"
	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/pkg/response"
)

const sessionCookie = "session_uuid"

// Middleware authenticates requests against the session store.
type Middleware struct {
	sessions *SessionStore
	cfg      *config.Config
}

func NewMiddleware(sessions *SessionStore, cfg *config.Config) *Middleware {
	return &Middleware{sessions: sessions, cfg: cfg}
}

// devIdentity is the fixed caller used when running locally without the
// intranet SSO in front.
var devIdentity = Identity{
	EmployeeID:  1,
	Name:        "Desarrollo",
	Permissions: map[string]bool{PermLabAdmin: true},
}

// SessionRequired resolves the session cookie into an identity and puts
// it on the context. Requests without a live session get a 401.
func (m *Middleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.cfg.IsDev() {
			setIdentity(c, devIdentity)
			c.Next()
			return
		}

		uuid := m.sessionUUID(c)
		if uuid == "" {
			unauthorized(c)
			return
		}
		identity, err := m.sessions.Lookup(c.Request.Context(), uuid)
		if err != nil {
			log.Printf("auth: session lookup failed: %v", err)
			response.Internal(c, "Failed to verify the session")
			c.Abort()
			return
		}
		if identity == nil {
			unauthorized(c)
			return
		}
		setIdentity(c, *identity)
		c.Next()
	}
}

// RequirePermission guards a route group behind one permission token.
// Must run after SessionRequired.
func (m *Middleware) RequirePermission(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			unauthorized(c)
			return
		}
		if !identity.Can(token) {
			response.Error(c, http.StatusForbidden, response.CodeForbidden, "Missing permission")
			c.Abort()
			return
		}
		c.Next()
	}
}

// sessionUUID reads the cookie, honoring the env override used when the
// service runs behind a proxy that strips cookies.
func (m *Middleware) sessionUUID(c *gin.Context) string {
	if m.cfg.SessionUUID != "" {
		return m.cfg.SessionUUID
	}
	uuid, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return uuid
}

func setIdentity(c *gin.Context, identity Identity) {
	c.Set("employee_id", identity.EmployeeID)
	c.Set("employee_name", identity.Name)
	c.Set("identity", identity)
}

// IdentityFrom recovers the identity set by SessionRequired.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get("identity")
	if !ok {
		return Identity{}, false
	}
	identity, ok := v.(Identity)
	return identity, ok
}

func unauthorized(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	c.Abort()
}
