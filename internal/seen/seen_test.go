package seen

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestRemember_TwiceReturnsTrueThenFalse(t *testing.T) {
	s := New(10)
	if !s.Remember("x") {
		t.Fatalf("first Remember should report new")
	}
	if s.Remember("x") {
		t.Fatalf("second Remember should report seen")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestRemember_EvictsOldestFirst(t *testing.T) {
	const n, k = 5, 3
	s := New(n)

	ids := make([]string, n+k)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
		if !s.Remember(ids[i]) {
			t.Fatalf("%s should be new", ids[i])
		}
		if s.Len() > n {
			t.Fatalf("Len %d exceeds capacity", s.Len())
		}
	}

	for i, id := range ids {
		want := i >= k
		if got := s.Contains(id); got != want {
			t.Errorf("Contains(%s) = %v, want %v", id, got, want)
		}
	}

	got := s.IDs()
	for i, id := range got {
		if id != ids[k+i] {
			t.Errorf("order[%d] = %s, want %s", i, id, ids[k+i])
		}
	}
}

func TestRemember_FirstNStayWithinCapacity(t *testing.T) {
	s := New(DefaultCapacity)
	for i := 0; i < DefaultCapacity; i++ {
		s.Remember(fmt.Sprintf("%d", i))
	}
	for i := 0; i < DefaultCapacity; i++ {
		if s.Remember(fmt.Sprintf("%d", i)) {
			t.Fatalf("id %d should still be seen", i)
		}
	}
}

func TestRemember_EvictedIDIsNewAgain(t *testing.T) {
	s := New(2)
	s.Remember("a")
	s.Remember("b")
	s.Remember("c") // evicts a

	if !s.Remember("a") {
		t.Errorf("evicted id should be new again")
	}
	if s.Contains("b") {
		t.Errorf("b should have been evicted when a returned")
	}
	if len(s.lookup) != len(s.order) {
		t.Errorf("lookup (%d) and order (%d) drifted", len(s.lookup), len(s.order))
	}
}

func TestNew_DefaultCapacity(t *testing.T) {
	if New(0).Capacity() != DefaultCapacity {
		t.Errorf("expected default capacity")
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s := New(3)
	for _, id := range []string{"a", "b", "c"} {
		s.Remember(id)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	smaller := New(2)
	if err := smaller.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if smaller.Contains("a") || !smaller.Contains("b") || !smaller.Contains("c") {
		t.Errorf("expected newest ids to survive, got %v", smaller.IDs())
	}
}

func TestLoad_MissingAndEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	s := New(3)
	if err := s.Load(filepath.Join(dir, "missing.json")); err != nil {
		t.Errorf("missing file should be ignored: %v", err)
	}

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(empty); err != nil {
		t.Errorf("empty file should be ignored: %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Load(bad); err == nil {
		t.Errorf("expected error for corrupt file")
	}
}
