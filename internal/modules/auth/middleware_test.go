package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	// registers the cgo-free "sqlite" driver used below
	_ "modernc.org/sqlite"

	"github.com/TYPSAPeru/laboratorio-cotizaciones/internal/config"
)

func newSessionStore(t *testing.T) (*SessionStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: ":memory:"}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	require.NoError(t, db.Exec(`CREATE TABLE sessions (uuid TEXT, employee_id INTEGER, expires_at DATETIME)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE employees (id INTEGER PRIMARY KEY, name TEXT)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE permissions (id INTEGER PRIMARY KEY, name TEXT)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE employee_permissions (employee_id INTEGER, permission_id INTEGER)`).Error)
	return NewSessionStore(db), db
}

func seedSession(t *testing.T, db *gorm.DB, uuid string, employeeID int64, expires time.Time) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO sessions (uuid, employee_id, expires_at) VALUES (?, ?, ?)`,
		uuid, employeeID, expires,
	).Error)
}

func testRouter(m *Middleware, perm string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", m.SessionRequired())
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"employee_id": c.GetInt64("employee_id")})
	})
	if perm != "" {
		admin := group.Group("/", m.RequirePermission(perm))
		admin.GET("/admin", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
	}
	return r
}

func TestSessionRequiredResolvesIdentity(t *testing.T) {
	store, db := newSessionStore(t)
	require.NoError(t, db.Exec(`INSERT INTO employees (id, name) VALUES (7, 'R. Quispe')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO permissions (id, name) VALUES (1, 'admin-lab')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO employee_permissions (employee_id, permission_id) VALUES (7, 1)`).Error)
	seedSession(t, db, "abc-123", 7, time.Now().Add(time.Hour))

	m := NewMiddleware(store, &config.Config{AppEnv: "production"})
	r := testRouter(m, PermLabAdmin)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "abc-123"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee_id":7`)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "abc-123"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionRequiredRejectsMissingAndExpiredSessions(t *testing.T) {
	store, db := newSessionStore(t)
	seedSession(t, db, "stale", 7, time.Now().Add(-time.Minute))

	m := NewMiddleware(store, &config.Config{AppEnv: "production"})
	r := testRouter(m, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "stale"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "unknown"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequirePermissionRejectsWithoutToken(t *testing.T) {
	store, db := newSessionStore(t)
	require.NoError(t, db.Exec(`INSERT INTO employees (id, name) VALUES (8, 'L. Torres')`).Error)
	seedSession(t, db, "no-perms", 8, time.Now().Add(time.Hour))

	m := NewMiddleware(store, &config.Config{AppEnv: "production"})
	r := testRouter(m, PermLabAdmin)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "no-perms"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDevModeBypassesSessionLookup(t *testing.T) {
	store, _ := newSessionStore(t)
	m := NewMiddleware(store, &config.Config{AppEnv: "dev"})
	r := testRouter(m, PermLabAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee_id":1`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionUUIDEnvOverrideWinsOverCookie(t *testing.T) {
	store, db := newSessionStore(t)
	require.NoError(t, db.Exec(`INSERT INTO employees (id, name) VALUES (7, 'R. Quispe')`).Error)
	seedSession(t, db, "fixed", 7, time.Now().Add(time.Hour))

	m := NewMiddleware(store, &config.Config{AppEnv: "production", SessionUUID: "fixed"})
	r := testRouter(m, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee_id":7`)
}
