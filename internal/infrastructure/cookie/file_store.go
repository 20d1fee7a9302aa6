// Package cookie implements the session cookie store.
//
// Cookies are kept as plain records readable by the dashboard process, the
// same exposure a script-readable browser cookie has. Tokens are not
// encrypted at rest.
package cookie

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

const cookiePath = "/"

// record is the persisted form of one cookie.
type record struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Path  string `json:"path"`
}

// FileStore keeps cookies in memory and rewrites a JSON file on every
// mutation. The file is read once, by NewFileStore.
type FileStore struct {
	mu      sync.Mutex
	path    string
	cookies map[string]*http.Cookie
}

// NewFileStore loads path if it exists. A missing file is an empty jar.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, cookies: make(map[string]*http.Cookie)}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read cookie file %s: %w", path, err)
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", path, err)
	}
	for _, r := range records {
		if r.Name == "" || r.Value == "" {
			continue
		}
		s.cookies[r.Name] = newCookie(r.Name, r.Value)
	}
	return s, nil
}

func (s *FileStore) Read(name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cookies[name]
	if !ok {
		return "", false
	}
	return c.Value, true
}

func (s *FileStore) Write(name, value string) error {
	c := newCookie(name, value)
	if err := c.Valid(); err != nil {
		return fmt.Errorf("write cookie %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies[name] = c
	return s.flush()
}

func (s *FileStore) Clear(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cookies[name]; !ok {
		return nil
	}
	delete(s.cookies, name)
	return s.flush()
}

// Cookies returns the jar as Set-Cookie-ready values, sorted by name.
func (s *FileStore) Cookies() []*http.Cookie {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedCookies(s.cookies)
}

// flush writes the jar through a temp file and rename so a crash never
// leaves a truncated file. Callers hold s.mu.
func (s *FileStore) flush() error {
	records := make([]record, 0, len(s.cookies))
	for _, c := range sortedCookies(s.cookies) {
		records = append(records, record{Name: c.Name, Value: c.Value, Path: c.Path})
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cookie dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cookies-*")
	if err != nil {
		return fmt.Errorf("create temp cookie file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cookie file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cookie file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cookie file %s: %w", s.path, err)
	}
	return nil
}

func newCookie(name, value string) *http.Cookie {
	return &http.Cookie{Name: name, Value: value, Path: cookiePath}
}

func sortedCookies(m map[string]*http.Cookie) []*http.Cookie {
	out := make([]*http.Cookie, 0, len(m))
	for _, c := range m {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
