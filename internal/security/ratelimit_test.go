package security

import (
	"testing"
	"time"
)

func TestLimiterStore_BurstThenDeny(t *testing.T) {
	s := NewLimiterStore(1, 3, time.Minute)

	for i := 0; i < 3; i++ {
		if !s.Allow("10.0.0.1") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if s.Allow("10.0.0.1") {
		t.Fatal("request over burst should be denied")
	}
}

func TestLimiterStore_IndependentClients(t *testing.T) {
	s := NewLimiterStore(1, 1, time.Minute)

	if !s.Allow("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if !s.Allow("10.0.0.2") {
		t.Fatal("second client has its own bucket")
	}
	if s.Allow("10.0.0.1") {
		t.Fatal("first client exhausted its bucket")
	}
}

func TestLimiterStore_EmptyIPBucketed(t *testing.T) {
	s := NewLimiterStore(1, 1, time.Minute)

	if !s.Allow("") {
		t.Fatal("empty ip should still get a bucket")
	}
	if s.Allow("  ") {
		t.Fatal("blank ip shares the unknown bucket")
	}
}
