package runid

import "testing"

func TestNewLength(t *testing.T) {
	if got := New(); len(got) != 12 {
		t.Errorf("New() = %q, want 12 characters", got)
	}
}

func TestNewUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestNewURLSafe(t *testing.T) {
	for i := 0; i < 100; i++ {
		for _, r := range New() {
			ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
			if !ok {
				t.Fatalf("id contains non-URL-safe rune %q", r)
			}
		}
	}
}
