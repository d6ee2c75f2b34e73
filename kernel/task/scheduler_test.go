package task

import (
	"context"
	"testing"
)

func TestSpawnAndState(t *testing.T) {
	s := NewScheduler()
	pid := s.Spawn(1)

	st, err := s.State(pid)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if st != Ready {
		t.Fatalf("new process state = %v, want Ready", st)
	}

	if err := s.SetState(pid, Running); err != nil {
		t.Fatalf("SetState: %v", err)
	}
	st, _ = s.State(pid)
	if st != Running {
		t.Fatalf("state after SetState = %v, want Running", st)
	}
}

func TestStateDead(t *testing.T) {
	cases := []struct {
		s    State
		dead bool
	}{
		{Running, false},
		{Ready, false},
		{Waiting, false},
		{Sleeping, true},
		{Stopped, true},
		{Finished, true},
		{Zombie, true},
	}
	for _, c := range cases {
		if got := c.s.Dead(); got != c.dead {
			t.Errorf("%v.Dead() = %v, want %v", c.s, got, c.dead)
		}
	}
}

func TestNoSuchProcess(t *testing.T) {
	s := NewScheduler()
	if _, err := s.State(PID(999)); err != ErrNoSuchProcess {
		t.Fatalf("State(unknown) = %v, want ErrNoSuchProcess", err)
	}
	if err := s.Kill(PID(999), true); err != ErrNoSuchProcess {
		t.Fatalf("Kill(unknown) = %v, want ErrNoSuchProcess", err)
	}
}

func TestBlockUnblock(t *testing.T) {
	s := NewScheduler()
	pid := s.Spawn(1)

	done := make(chan struct{})
	go func() {
		_ = s.Block(pid)
		close(done)
	}()

	// Give the blocking goroutine a chance to register.
	for {
		st, _ := s.State(pid)
		if st == Waiting {
			break
		}
		s.Yield()
	}

	if err := s.Unblock(pid); err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	<-done

	st, _ := s.State(pid)
	if st != Ready {
		t.Fatalf("state after Unblock = %v, want Ready", st)
	}
}

func TestIOPerm(t *testing.T) {
	s := NewScheduler()
	pid := s.Spawn(1)

	allowed, _ := s.IOPerm(pid, 0x3F8)
	if allowed {
		t.Fatalf("fresh process should not have port permission")
	}
	if err := s.SetIOPerm(pid, 0x3F8, true); err != nil {
		t.Fatalf("SetIOPerm: %v", err)
	}
	allowed, _ = s.IOPerm(pid, 0x3F8)
	if !allowed {
		t.Fatalf("port permission not granted")
	}
}

func TestInterruptContext(t *testing.T) {
	s := NewScheduler()
	if s.InInterruptContext() {
		t.Fatalf("fresh scheduler should not report interrupt context")
	}
	s.RunInInterruptContext(func() {
		if !s.InInterruptContext() {
			t.Fatalf("RunInInterruptContext did not set interrupt context")
		}
	})
	if s.InInterruptContext() {
		t.Fatalf("interrupt context leaked past RunInInterruptContext")
	}
}

func TestWaitRespectsContext(t *testing.T) {
	s := NewScheduler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Wait(ctx, 10); err == nil {
		t.Fatalf("Wait with cancelled context should return an error")
	}
}
