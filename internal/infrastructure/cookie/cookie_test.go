package cookie

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/99minutos/employee-dashboard/internal/core/ports"
)

var (
	_ ports.CookieStore = (*FileStore)(nil)
	_ ports.CookieStore = (*MemoryStore)(nil)
)

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "cookies.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, ok := s.Read("token"); ok {
		t.Fatalf("expected no token")
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash", "cookies.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if err := s.Write("token", "abc.def"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Write("role", "admin"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, ok := reloaded.Read("token"); !ok || v != "abc.def" {
		t.Fatalf("token = %q (%v)", v, ok)
	}
	cookies := reloaded.Cookies()
	if len(cookies) != 2 || cookies[0].Name != "role" || cookies[0].Path != "/" {
		t.Fatalf("unexpected cookies: %+v", cookies)
	}
}

func TestFileStore_ClearRemovesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	s, _ := NewFileStore(path)
	_ = s.Write("token", "abc")
	_ = s.Write("role", "user")

	if err := s.Clear("token"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear("missing"); err != nil {
		t.Fatalf("Clear of absent cookie: %v", err)
	}

	reloaded, _ := NewFileStore(path)
	if _, ok := reloaded.Read("token"); ok {
		t.Fatalf("token should be gone")
	}
	if v, _ := reloaded.Read("role"); v != "user" {
		t.Fatalf("role should remain, got %q", v)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestStores_RejectInvalidValues(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Write("token", "bad;value"); err == nil {
		t.Fatalf("expected invalid cookie value error")
	}
	if _, ok := s.Read("token"); ok {
		t.Fatalf("invalid value must not be stored")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Write("token", "abc")
	if v, ok := s.Read("token"); !ok || v != "abc" {
		t.Fatalf("token = %q (%v)", v, ok)
	}
	_ = s.Clear("token")
	if _, ok := s.Read("token"); ok {
		t.Fatalf("token should be cleared")
	}
}
