package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 5; i++ {
		if !l.Allow("10.0.0.1", 5, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("10.0.0.1", 5, 0) {
		t.Fatalf("bucket should be empty")
	}
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		l.Allow("a", 3, 0)
	}
	if l.Allow("a", 3, 0) {
		t.Fatalf("key a should be exhausted")
	}
	if !l.Allow("b", 3, 0) {
		t.Fatalf("key b should have its own bucket")
	}
}
