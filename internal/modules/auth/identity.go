// Package auth resolves the acting employee from the SSO session cookie
// and guards routes by permission. Sessions are issued by the external
// intranet login, never by this service.
package auth

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Identity is the authenticated caller placed on the request context.
type Identity struct {
	EmployeeID  int64
	Name        string
	Permissions map[string]bool
}

// Can reports whether the identity holds the given permission token.
// The token is normalized before lookup.
func (id Identity) Can(token string) bool {
	return id.Permissions[NormalizeToken(token)]
}

type sessionRow struct {
	EmployeeID int64     `gorm:"column:employee_id"`
	Name       string    `gorm:"column:name"`
	ExpiresAt  time.Time `gorm:"column:expires_at"`
}

// SessionStore loads identities from the sessions table on the
// transactional store.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Lookup resolves a session uuid into an identity. An unknown or expired
// session returns nil without error.
func (s *SessionStore) Lookup(ctx context.Context, sessionUUID string) (*Identity, error) {
	var rows []sessionRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT s.employee_id, COALESCE(e.name, '') AS name, s.expires_at
		FROM sessions s
		LEFT JOIN employees e ON e.id = s.employee_id
		WHERE s.uuid = @uuid`,
		map[string]interface{}{"uuid": sessionUUID},
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if len(rows) == 0 || rows[0].ExpiresAt.Before(time.Now()) {
		return nil, nil
	}

	perms, err := s.permissions(ctx, rows[0].EmployeeID)
	if err != nil {
		return nil, err
	}
	return &Identity{
		EmployeeID:  rows[0].EmployeeID,
		Name:        rows[0].Name,
		Permissions: perms,
	}, nil
}

func (s *SessionStore) permissions(ctx context.Context, employeeID int64) (map[string]bool, error) {
	var names []string
	err := s.db.WithContext(ctx).Raw(`
		SELECT p.name
		FROM permissions p
		JOIN employee_permissions ep ON ep.permission_id = p.id
		WHERE ep.employee_id = @id`,
		map[string]interface{}{"id": employeeID},
	).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	perms := make(map[string]bool, len(names))
	for _, n := range names {
		if token := NormalizeToken(n); token != "" {
			perms[token] = true
		}
	}
	return perms, nil
}
