package library

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type brokenKV struct{ MemoryKV }

func (*brokenKV) Get(string) (string, error) { return "", errors.New("disk on fire") }

func fixedLibrary(t *testing.T, kv KV) *Library {
	t.Helper()
	l := New(kv)
	l.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }
	n := 0
	l.newID = func() string {
		n++
		return string(rune('a' + n - 1))
	}
	return l
}

func TestSave_BlankIsNoop(t *testing.T) {
	kv := NewMemoryKV()
	l := fixedLibrary(t, kv)
	tests := []struct{ name, desc string }{
		{"", "buy low"},
		{"   ", "buy low"},
		{"Dip buyer", ""},
		{"Dip buyer", " \n"},
	}
	for _, tt := range tests {
		if _, ok, err := l.Save(tt.name, tt.desc); ok || err != nil {
			t.Errorf("Save(%q, %q) = %v, %v", tt.name, tt.desc, ok, err)
		}
	}
	if l.Len() != 0 {
		t.Errorf("len = %d, want 0", l.Len())
	}
	if _, err := kv.Get(StorageKey); !errors.Is(err, ErrNotFound) {
		t.Error("no-op save wrote to the store")
	}
}

func TestSave_PrependsAndPersists(t *testing.T) {
	kv := NewMemoryKV()
	l := fixedLibrary(t, kv)
	if _, _, err := l.Save(" First ", "rsi"); err != nil {
		t.Fatal(err)
	}
	s, ok, err := l.Save("Second", "macd")
	if err != nil || !ok {
		t.Fatalf("save: %v %v", ok, err)
	}
	if s.Name != "Second" || s.Timestamp != 1_700_000_000_000 || s.ID != "b" {
		t.Errorf("saved = %+v", s)
	}
	list := l.List()
	if len(list) != 2 || list[0].Name != "Second" || list[1].Name != "First" {
		t.Fatalf("order = %+v", list)
	}

	reloaded := New(kv)
	if got := reloaded.List(); len(got) != 2 || got[0].ID != "b" {
		t.Errorf("reloaded = %+v", got)
	}
}

func TestDeleteAndGet(t *testing.T) {
	l := fixedLibrary(t, NewMemoryKV())
	l.Save("One", "x")
	l.Save("Two", "y")

	if s, ok := l.Get("a"); !ok || s.Name != "One" {
		t.Errorf("Get(a) = %+v, %v", s, ok)
	}
	if ok, err := l.Delete("a"); !ok || err != nil {
		t.Fatalf("Delete(a) = %v, %v", ok, err)
	}
	if ok, _ := l.Delete("a"); ok {
		t.Error("second delete reported success")
	}
	if _, ok := l.Get("a"); ok {
		t.Error("deleted strategy still present")
	}
	if l.Len() != 1 {
		t.Errorf("len = %d", l.Len())
	}
}

func TestNew_CorruptDataIsEmpty(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set(StorageKey, "{definitely not a list")
	if l := New(kv); l.Len() != 0 {
		t.Errorf("len = %d, want 0", l.Len())
	}
	if l := New(&brokenKV{}); l.Len() != 0 {
		t.Errorf("unreadable store len = %d", l.Len())
	}
}

func TestStores_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver string
		path   string
	}{
		{"sqlite", filepath.Join(dir, "db", "trademind.db")},
		{"file", filepath.Join(dir, "store", "kv.json")},
		{"memory", ""},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			kv, err := Open(tt.driver, tt.path)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if _, err := kv.Get("missing"); !errors.Is(err, ErrNotFound) {
				t.Errorf("missing key err = %v", err)
			}
			if err := kv.Set("k", "v1"); err != nil {
				t.Fatal(err)
			}
			if err := kv.Set("k", "v2"); err != nil {
				t.Fatal(err)
			}
			if v, err := kv.Get("k"); err != nil || v != "v2" {
				t.Errorf("Get = %q, %v", v, err)
			}
			if err := kv.Close(); err != nil {
				t.Errorf("Close: %v", err)
			}
			if tt.path == "" {
				return
			}
			again, err := Open(tt.driver, tt.path)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer again.Close()
			if v, _ := again.Get("k"); v != "v2" {
				t.Errorf("after reopen = %q", v)
			}
		})
	}
}

func TestFileKV_FailedWriteKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := kv.Set("k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}

	if err := kv.Set("k", "v2"); err == nil {
		t.Fatal("expected write error")
	}
	if err := kv.Set("other", "x"); err == nil {
		t.Fatal("expected write error")
	}
	if v, err := kv.Get("k"); err != nil || v != "v1" {
		t.Errorf("Get = %q, %v; want v1", v, err)
	}
	if _, err := kv.Get("other"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unwritten key err = %v", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("postgres", "x"); err == nil {
		t.Error("expected error")
	}
}
