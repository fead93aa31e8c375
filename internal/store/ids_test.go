package store

import (
	"strings"
	"testing"
)

func TestNewIDFormat(t *testing.T) {
	id := NewID()

	dash := strings.LastIndexByte(id, '-')
	if dash == -1 {
		t.Fatalf("id %q missing suffix separator", id)
	}

	prefix, suffix := id[:dash], id[dash+1:]
	for _, c := range prefix {
		if c < '0' || c > '9' {
			t.Fatalf("id prefix %q is not a timestamp", prefix)
		}
	}
	if len(suffix) != 6 {
		t.Fatalf("suffix %q has length %d, want 6", suffix, len(suffix))
	}
	for _, c := range suffix {
		if !strings.ContainsRune(idAlphabet, c) {
			t.Fatalf("suffix %q contains %q outside the id alphabet", suffix, c)
		}
	}
}

func TestNewIDUniqueEnough(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}
