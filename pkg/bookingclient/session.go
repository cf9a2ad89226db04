package bookingclient

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Storage keys shared with the web portal, which reads the same values.
const (
	userStorageKey  = "user"
	tokenStorageKey = "sessionToken"
)

// KVStore is where a session survives process restarts. Implementations can
// be a file, browser local storage behind a bridge, or the in-memory store.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is a KVStore backed by a map.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// SaveSession persists a session to the store and installs its token on the
// client.
func (c *Client) SaveSession(store KVStore, sess *Session) error {
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("bookingclient: marshal user: %w", err)
	}
	store.Set(userStorageKey, string(userJSON))
	store.Set(tokenStorageKey, sess.Token)
	c.SetToken(sess.Token)
	return nil
}

// RestoreSession loads a previously saved session. Returns false when no
// session is stored or the stored user is unreadable.
func (c *Client) RestoreSession(store KVStore) (*Session, bool) {
	token, ok := store.Get(tokenStorageKey)
	if !ok || token == "" {
		return nil, false
	}
	userJSON, ok := store.Get(userStorageKey)
	if !ok {
		return nil, false
	}
	var u User
	if err := json.Unmarshal([]byte(userJSON), &u); err != nil {
		return nil, false
	}
	c.SetToken(token)
	return &Session{Token: token, User: &u}, true
}

// ClearSession removes the stored session and the client's token.
func (c *Client) ClearSession(store KVStore) {
	store.Delete(userStorageKey)
	store.Delete(tokenStorageKey)
	c.SetToken("")
}
