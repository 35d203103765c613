package quiz

import (
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/model"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry()

	s, err := r.Create([]model.Question{mcQuestion()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID() == "" {
		t.Error("created session should have an ID")
	}
	if got := r.Get(s.ID()); got != s {
		t.Error("Get() should return the created session")
	}
	if got := r.Get("missing"); got != nil {
		t.Errorf("Get() for unknown ID = %v, want nil", got)
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestRegistryCreateRejectsEmptyList(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Create(nil); err == nil {
		t.Error("Create() with no questions should fail")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	s, err := r.Create([]model.Question{mcQuestion()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	r.Remove(s.ID())
	if r.Get(s.ID()) != nil {
		t.Error("removed session should be gone")
	}

	// Removing twice is harmless.
	r.Remove(s.ID())
}

func TestRegistryPurge(t *testing.T) {
	r := NewRegistry()
	s, err := r.Create([]model.Question{mcQuestion()})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if n := r.Purge(time.Hour); n != 0 {
		t.Errorf("Purge(1h) = %d, want 0", n)
	}
	if r.Get(s.ID()) == nil {
		t.Error("fresh session should survive the purge")
	}

	time.Sleep(5 * time.Millisecond)
	if n := r.Purge(0); n != 1 {
		t.Errorf("Purge(0) = %d, want 1", n)
	}
	if r.Get(s.ID()) != nil {
		t.Error("aged session should be purged")
	}
}
