package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"transrural/internal/domain"
)

// Session is what survives a console restart: the user record and the
// bearer token from the last successful login.
type Session struct {
	User    domain.User `json:"user"`
	Token   string      `json:"token"`
	SavedAt time.Time   `json:"saved_at"`
}

// Store persists the session to a JSON file, the console's analog of the
// old frontend's localStorage marker.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	// 0600: the token is a credential.
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *Store) Load() (Session, bool) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return Session{}, false
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, false
	}
	if sess.Token == "" || sess.User.ID == 0 {
		return Session{}, false
	}
	return sess, true
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
