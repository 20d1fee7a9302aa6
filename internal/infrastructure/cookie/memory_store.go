package cookie

import (
	"fmt"
	"net/http"
	"sync"
)

// MemoryStore is a process-local jar with no persistence.
type MemoryStore struct {
	mu      sync.Mutex
	cookies map[string]*http.Cookie
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cookies: make(map[string]*http.Cookie)}
}

func (s *MemoryStore) Read(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

func (s *MemoryStore) Write(name, value string) error {
	c := newCookie(name, value)
	if err := c.Valid(); err != nil {
		return fmt.Errorf("write cookie %s: %w", name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies[name] = c
	return nil
}

func (s *MemoryStore) Clear(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cookies, name)
	return nil
}

// Cookies returns the jar sorted by name.
func (s *MemoryStore) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCookies(s.cookies)
}
