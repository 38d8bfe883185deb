package telegram

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSenderRunsEnqueuedJob(t *testing.T) {
	s := NewSender(SenderOptions{QueueSize: 4, Workers: 1})
	defer s.Close()

	done := make(chan struct{})
	err := s.Enqueue(context.Background(), "test.send", func() error {
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never executed")
	}
}

func TestSenderRetriesUntilSuccess(t *testing.T) {
	s := NewSender(SenderOptions{QueueSize: 4, Workers: 1, MaxRetries: 2, RetryBackoff: time.Millisecond})
	defer s.Close()

	var calls atomic.Int32
	done := make(chan struct{})
	err := s.Enqueue(context.Background(), "test.retry", func() error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job never succeeded")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestSenderRejectsAfterClose(t *testing.T) {
	s := NewSender(SenderOptions{QueueSize: 1, Workers: 1})
	s.Close()

	err := s.Enqueue(context.Background(), "test.closed", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Errorf("err = %v, want ErrQueueClosed", err)
	}
}

func TestSenderRejectsWhenSaturated(t *testing.T) {
	s := NewSender(SenderOptions{QueueSize: 1, Workers: 1})
	defer s.Close()

	block := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	// Occupy the single worker, then fill the single queue slot.
	if err := s.Enqueue(context.Background(), "test.block", func() error {
		close(block)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("Enqueue worker job: %v", err)
	}
	<-block
	if err := s.Enqueue(context.Background(), "test.fill", func() error { return nil }); err != nil {
		t.Fatalf("Enqueue queued job: %v", err)
	}

	err := s.Enqueue(context.Background(), "test.overflow", func() error { return nil })
	if !errors.Is(err, ErrQueueFull) {
		t.Errorf("err = %v, want ErrQueueFull", err)
	}
}

func TestSenderCloseDrainsQueuedJobs(t *testing.T) {
	s := NewSender(SenderOptions{QueueSize: 8, Workers: 1})

	var ran atomic.Int32
	block := make(chan struct{})
	release := make(chan struct{})
	if err := s.Enqueue(context.Background(), "test.block", func() error {
		close(block)
		<-release
		ran.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	<-block
	for i := 0; i < 4; i++ {
		if err := s.Enqueue(context.Background(), "test.queued", func() error {
			ran.Add(1)
			return nil
		}); err != nil {
			t.Fatalf("Enqueue queued job: %v", err)
		}
	}

	close(release)
	s.Close()

	if got := ran.Load(); got != 5 {
		t.Errorf("jobs run after Close = %d, want 5", got)
	}
}

func TestSenderConcurrentEnqueueAndClose(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := NewSender(SenderOptions{QueueSize: 2, Workers: 2})
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					// Accepted, full or closed are all fine; a send on a
					// closed channel would panic and fail the test.
					_ = s.Enqueue(context.Background(), "test.race", func() error { return nil })
				}
			}()
		}
		s.Close()
		wg.Wait()
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	err := errors.New("post https://api.telegram.org/bot123456:AAF-abc_def/sendMessage: timeout")
	got := sanitizeErrorMessage(err)
	if got != "post https://api.telegram.org/bot<redacted>/sendMessage: timeout" {
		t.Errorf("sanitized = %q", got)
	}
	if sanitizeErrorMessage(nil) != "" {
		t.Error("nil error should sanitize to empty string")
	}
}
