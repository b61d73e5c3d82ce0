package backoff

import (
	"testing"
	"time"
)

func TestNotifier_ParkNotify(t *testing.T) {
	n := NewNotifier()
	n.PrepareToPark()

	done := make(chan struct{})
	go func() {
		n.Park()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	n.Notify()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park() did not return after Notify()")
	}
}

func TestNotifier_NotifyBeforeParkDoesNotBlock(t *testing.T) {
	n := NewNotifier()
	n.PrepareToPark()
	n.Notify()

	done := make(chan struct{})
	go func() {
		n.Park()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park() blocked even though Notify() landed before it was called")
	}
}

func TestNotifier_ResetAllowsReuse(t *testing.T) {
	n := NewNotifier()
	n.PrepareToPark()
	n.Notify()
	n.Reset()

	done := make(chan struct{})
	go func() {
		n.Park()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Park() returned immediately after Reset(), want it to block for a fresh Notify()")
	case <-time.After(20 * time.Millisecond):
	}

	n.Notify()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Park() did not return after the post-Reset Notify()")
	}
}
