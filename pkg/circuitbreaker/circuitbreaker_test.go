package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func failingConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             50 * time.Millisecond,
		HalfOpenMaxRequests: 3,
	}
}

func TestCircuitBreaker(t *testing.T) {
	t.Run("stays closed on success", func(t *testing.T) {
		cb := New(failingConfig())
		for i := 0; i < 10; i++ {
			if err := cb.Execute(func() error { return nil }); err != nil {
				t.Fatal(err)
			}
		}
		if cb.GetState() != StateClosed {
			t.Fatalf("expected closed, got %v", cb.GetState())
		}
	})

	t.Run("opens after consecutive failures", func(t *testing.T) {
		cb := New(failingConfig())
		for i := 0; i < 3; i++ {
			cb.Execute(func() error { return errBoom })
		}
		if cb.GetState() != StateOpen {
			t.Fatalf("expected open, got %v", cb.GetState())
		}
		if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrOpen) {
			t.Fatalf("expected ErrOpen, got %v", err)
		}
	})

	t.Run("success resets the failure count while closed", func(t *testing.T) {
		cb := New(failingConfig())
		cb.Execute(func() error { return errBoom })
		cb.Execute(func() error { return errBoom })
		cb.Execute(func() error { return nil })
		cb.Execute(func() error { return errBoom })
		if cb.GetState() != StateClosed {
			t.Fatalf("expected closed, got %v", cb.GetState())
		}
	})

	t.Run("recovers through half-open after timeout", func(t *testing.T) {
		cb := New(failingConfig())
		for i := 0; i < 3; i++ {
			cb.Execute(func() error { return errBoom })
		}
		time.Sleep(60 * time.Millisecond)

		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("half-open probe should pass, got %v", err)
		}
		if cb.GetState() != StateHalfOpen {
			t.Fatalf("expected half-open, got %v", cb.GetState())
		}
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatal(err)
		}
		if cb.GetState() != StateClosed {
			t.Fatalf("expected closed after success threshold, got %v", cb.GetState())
		}
	})

	t.Run("failure in half-open reopens immediately", func(t *testing.T) {
		cb := New(failingConfig())
		for i := 0; i < 3; i++ {
			cb.Execute(func() error { return errBoom })
		}
		time.Sleep(60 * time.Millisecond)

		cb.Execute(func() error { return errBoom })
		if cb.GetState() != StateOpen {
			t.Fatalf("expected open after half-open failure, got %v", cb.GetState())
		}
	})

	t.Run("reset returns to closed", func(t *testing.T) {
		cb := New(failingConfig())
		for i := 0; i < 3; i++ {
			cb.Execute(func() error { return errBoom })
		}
		cb.Reset()
		if cb.GetState() != StateClosed {
			t.Fatalf("expected closed after reset, got %v", cb.GetState())
		}
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatal(err)
		}
	})
}
