package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		FailureThreshold:   2,
		SuccessThreshold:   1,
		OpenFor:            10 * time.Millisecond,
		CountersResetAfter: time.Minute,
	}
}

func TestExecute_OpensAfterThreshold(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := cb.Execute(context.Background(), func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want boom", i, err)
		}
	}
	if cb.GetState() != StateOpen {
		t.Fatalf("state = %v, want open", cb.GetState())
	}

	called := false
	err := cb.Execute(context.Background(), func() error { called = true; return nil })
	if !errors.Is(err, ErrOpen) {
		t.Errorf("error = %v, want ErrOpen", err)
	}
	if called {
		t.Error("wrapped call ran while breaker was open")
	}
}

func TestExecute_RecoversThroughHalfOpen(t *testing.T) {
	cb := New(testConfig())
	boom := errors.New("boom")
	cb.Execute(context.Background(), func() error { return boom })
	cb.Execute(context.Background(), func() error { return boom })

	time.Sleep(15 * time.Millisecond)

	if err := cb.Execute(context.Background(), func() error { return nil }); err != nil {
		t.Fatalf("probe call error = %v", err)
	}
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed", cb.GetState())
	}
}

func TestExecute_ContextCancellationNotCounted(t *testing.T) {
	cb := New(testConfig())
	for i := 0; i < 5; i++ {
		cb.Execute(context.Background(), func() error { return context.DeadlineExceeded })
	}
	if cb.GetState() != StateClosed {
		t.Errorf("state = %v, want closed after timeouts only", cb.GetState())
	}
}

func TestGetStats(t *testing.T) {
	cb := New(testConfig())
	cb.Execute(context.Background(), func() error { return errors.New("x") })

	stats := cb.GetStats()
	if stats.Failures != 1 {
		t.Errorf("Failures = %d, want 1", stats.Failures)
	}
	if stats.State != StateClosed {
		t.Errorf("State = %v, want closed", stats.State)
	}
}
