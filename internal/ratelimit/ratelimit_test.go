package ratelimit

import (
	"testing"
	"time"
)

func TestBudget_DailyCap(t *testing.T) {
	b := NewBudget(2, 0)
	if !b.Allow() || !b.Allow() {
		t.Fatalf("first two calls should be allowed")
	}
	if b.Allow() {
		t.Errorf("third call should exceed the daily cap")
	}
	if b.Used() != 2 {
		t.Errorf("Used = %d, want 2", b.Used())
	}
}

func TestBudget_ResetsAfterWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBudget(1, 0)
	b.now = func() time.Time { return now }
	b.resetTime = now.Add(24 * time.Hour)

	if !b.Allow() {
		t.Fatalf("first call should pass")
	}
	if b.Allow() {
		t.Fatalf("cap should block")
	}

	now = now.Add(25 * time.Hour)
	if !b.Allow() {
		t.Errorf("budget should reset after 24h")
	}
}

func TestBudget_Unlimited(t *testing.T) {
	b := NewBudget(0, 0)
	for i := 0; i < 100; i++ {
		if !b.Allow() {
			t.Fatalf("call %d refused by an unlimited budget", i)
		}
	}
}

func TestBudget_Pace(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBudget(0, 2)
	b.now = func() time.Time { return now }

	if !b.Allow() || !b.Allow() {
		t.Fatalf("burst of two should pass")
	}
	if b.Allow() {
		t.Errorf("third call within the same instant should be paced")
	}

	now = now.Add(time.Minute)
	if !b.Allow() {
		t.Errorf("pace should refill after a minute")
	}
}
