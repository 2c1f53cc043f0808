// Package session persists the authenticated user's profile and bearer
// token across runs.
package session

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/seastream/aiswatch/internal/models"
)

// ErrNoSession is returned when no session is stored.
var ErrNoSession = errors.New("no active session")

// Session pairs a bearer token with the cached profile it belongs to.
type Session struct {
	Token string
	User  models.User
}

// Store caches the active session in memory and mirrors it to the local
// database. All methods are safe for use from tea.Cmd goroutines.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	current *Session
}

// NewStore loads any persisted session from db and returns the store.
func NewStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db}

	row := db.QueryRow("SELECT token, user_id, email, role FROM session WHERE id = 1")
	var sess Session
	var role string
	err := row.Scan(&sess.Token, &sess.User.ID, &sess.User.Email, &role)
	switch {
	case err == sql.ErrNoRows:
		// No session persisted; start logged out.
	case err != nil:
		return nil, fmt.Errorf("loading session: %w", err)
	default:
		sess.User.Role = models.Role(role)
		s.current = &sess
	}

	return s, nil
}

// Current returns the active session or ErrNoSession.
func (s *Store) Current() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Session{}, ErrNoSession
	}
	return *s.current, nil
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Save replaces the persisted session.
func (s *Store) Save(user models.User, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO session (id, token, user_id, email, role)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_id = excluded.user_id,
			email = excluded.email,
			role = excluded.role,
			saved_at = CURRENT_TIMESTAMP
	`, token, user.ID, user.Email, string(user.Role))
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	s.current = &Session{Token: token, User: user}
	return nil
}

// Clear drops the session, both in memory and on disk. Called on logout and
// whenever the server answers 401/403.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM session WHERE id = 1"); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.current = nil
	return nil
}
