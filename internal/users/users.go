// Package users holds the dashboard's small account list, persisted as a
// JSON file next to the server. Credentials are stored and checked in plain
// text; this mirrors the existing dashboard contract and is not a security
// boundary.
package users

import (
	"encoding/json"
	"os"
	"strings"
	"sync"
)

// Roles recognized by the dashboard.
const (
	RoleAdmin = "admin"
	RoleGuest = "guest"
)

// Protected is the bootstrap admin account that can never be deleted.
const Protected = "flyboysam"

// User is one dashboard account. Password is omitted from JSON when empty so
// public listings can reuse the type.
type User struct {
	ID       string `json:"id"`
	Password string `json:"pw,omitempty"`
	Role     string `json:"role"`
	Created  string `json:"created"`
}

// Public is the credential-free view returned by the API.
type Public struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Created string `json:"created"`
}

// Store is the account list with file-backed persistence. Reads vastly
// outnumber writes; a RWMutex keeps auth checks cheap.
type Store struct {
	mu    sync.RWMutex
	path  string
	users []User
}

// defaults returns the seed accounts used when no users file exists.
func defaults() []User {
	return []User{
		{ID: Protected, Password: "Airplane11!", Role: RoleAdmin, Created: "SYSTEM"},
		{ID: "guest", Password: "guest123", Role: RoleGuest, Created: "2026-02-22"},
		{ID: "SRG", Password: "SRG_2026", Role: RoleGuest, Created: "2026-02-22"},
	}
}

// Load opens or creates the users file at path. A missing, unreadable or
// empty file is replaced by the default account list, which is persisted so
// operators can edit it.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(raw, &s.users)
	}
	if len(s.users) > 0 {
		return s, nil
	}

	s.users = defaults()
	s.mu.Lock()
	err = s.save()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Authenticate checks an id/password pair. IDs compare case-insensitively,
// passwords exactly.
func (s *Store) Authenticate(id, pw string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.ID, id) && u.Password == pw {
			return u, true
		}
	}
	return User{}, false
}

// IsAdmin reports whether the credentials belong to an admin account.
func (s *Store) IsAdmin(id, pw string) bool {
	u, ok := s.Authenticate(id, pw)
	return ok && u.Role == RoleAdmin
}

// Exists reports whether an account with the given id exists
// (case-insensitive).
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.ID, id) {
			return true
		}
	}
	return false
}

// Public returns the credential-free account list in stored order.
func (s *Store) Public() []Public {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Public, len(s.users))
	for i, u := range s.users {
		out[i] = Public{ID: u.ID, Role: u.Role, Created: u.Created}
	}
	return out
}

// Add appends an account and persists the list.
func (s *Store) Add(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append(s.users, u)
	return s.save()
}

// Remove deletes the account with the given id (case-insensitive) and
// persists the list.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.users[:0]
	for _, u := range s.users {
		if !strings.EqualFold(u.ID, id) {
			kept = append(kept, u)
		}
	}
	s.users = kept
	return s.save()
}

// save writes the account list to disk atomically: temp file first, then
// rename. Callers hold the write lock.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
