package cache

import (
	"testing"
)

func TestHashIP(t *testing.T) {
	t.Parallel()

	clients := []string{
		"203.0.113.7",
		"203.0.113.8",
		"10.0.0.1",
		"::1",
		"2001:db8:85a3::8a2e:370:7334",
		"",
	}

	seen := make(map[string]string, len(clients))
	for _, ip := range clients {
		h := hashIP(ip)
		if len(h) != 16 {
			t.Errorf("hashIP(%q) = %q, want 16 hex chars", ip, h)
		}
		if again := hashIP(ip); again != h {
			t.Errorf("hashIP(%q) not stable: %q then %q", ip, h, again)
		}
		if prev, ok := seen[h]; ok {
			t.Errorf("hashIP(%q) collides with %q", ip, prev)
		}
		seen[h] = ip
	}
}

func TestUserKeys(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id     int64
		key    string
		negKey string
	}{
		{1, "user:1", "user:neg:1"},
		{42, "user:42", "user:neg:42"},
		{9007199254740993, "user:9007199254740993", "user:neg:9007199254740993"},
	}

	for _, tt := range tests {
		if got := userKey(tt.id); got != tt.key {
			t.Errorf("userKey(%d) = %q, want %q", tt.id, got, tt.key)
		}
		if got := userNegKey(tt.id); got != tt.negKey {
			t.Errorf("userNegKey(%d) = %q, want %q", tt.id, got, tt.negKey)
		}
	}
}

func TestUnlimited(t *testing.T) {
	t.Parallel()

	res := unlimited(7)
	if !res.Allowed {
		t.Error("unlimited result should be allowed")
	}
	if res.Remaining != 7 {
		t.Errorf("Remaining = %d, want 7", res.Remaining)
	}
}
