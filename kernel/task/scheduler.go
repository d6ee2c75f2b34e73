package task

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// process is the scheduler's private record for a PID. It is deliberately
// small: the multitasker facade is opaque to the rest of the core, which
// only ever sees PID, State, and the handful of accessors above.
type process struct {
	pid       PID
	privilege int
	state     State
	cwd       string
	ioPerm    map[uint16]bool
	blockCh   chan struct{}
}

// Scheduler is a reference single-CPU cooperative/preemptive implementation
// of Facade. Exactly one goroutine may hold cpuTok at a time, modeling the
// spec's Non-goal that only one CPU ever runs kernel code -- interrupt
// vectors are assigned and IO-APICs are programmed, but nothing here
// actually parallelizes execution across processes.
type Scheduler struct {
	mu      sync.Mutex
	procs   map[PID]*process
	nextPID PID
	current PID

	cpuTok *semaphore.Weighted

	interruptCtx bool // set by RunInInterruptContext for the duration of a handler
}

// NewScheduler creates a scheduler with the kernel process already
// registered at privilege 0 and running.
func NewScheduler() *Scheduler {
	s := &Scheduler{
		procs:   make(map[PID]*process),
		nextPID: KernelPID + 1,
		current: KernelPID,
		cpuTok:  semaphore.NewWeighted(1),
	}
	s.procs[KernelPID] = &process{
		pid:       KernelPID,
		privilege: 0,
		state:     Running,
		cwd:       "/",
		ioPerm:    make(map[uint16]bool),
	}
	return s
}

// Spawn registers a new process at the given privilege level and returns
// its PID. Privilege 0 is supervisor; anything larger is a user level.
func (s *Scheduler) Spawn(privilege int) PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	pid := s.nextPID
	s.nextPID++
	s.procs[pid] = &process{
		pid:       pid,
		privilege: privilege,
		state:     Ready,
		cwd:       "/",
		ioPerm:    make(map[uint16]bool),
	}
	return pid
}

// RunAsCurrent runs fn with pid set as the current process for the
// duration of the call. It is a test/harness convenience -- a real kernel
// derives "current" from the running CPU context, not a set call.
func (s *Scheduler) RunAsCurrent(pid PID, fn func()) {
	s.mu.Lock()
	prev := s.current
	s.current = pid
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.current = prev
	s.mu.Unlock()
}

// RunInInterruptContext runs fn with the scheduler reporting
// InInterruptContext() == true, matching the spec's rule that Acquire must
// refuse to block when called from an interrupt handler.
func (s *Scheduler) RunInInterruptContext(fn func()) {
	s.mu.Lock()
	s.interruptCtx = true
	s.mu.Unlock()

	fn()

	s.mu.Lock()
	s.interruptCtx = false
	s.mu.Unlock()
}

func (s *Scheduler) CurrentPID() PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Scheduler) InInterruptContext() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interruptCtx
}

func (s *Scheduler) Privilege(pid PID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return 0, ErrNoSuchProcess
	}
	return p.privilege, nil
}

func (s *Scheduler) State(pid PID) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return 0, ErrNoSuchProcess
	}
	return p.state, nil
}

func (s *Scheduler) SetState(pid PID, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return ErrNoSuchProcess
	}
	p.state = st
	if st == Finished || st == Zombie {
		if p.blockCh != nil {
			close(p.blockCh)
			p.blockCh = nil
		}
	}
	return nil
}

// Yield gives up the CPU token and immediately reacquires it, letting any
// other goroutine blocked on cpuTok.Acquire run in between. It never
// returns an error: yielding cannot fail.
func (s *Scheduler) Yield() {
	ctx := context.Background()
	if s.cpuTok.TryAcquire(1) {
		s.cpuTok.Release(1)
	}
	_ = s.cpuTok.Acquire(ctx, 1)
	s.cpuTok.Release(1)
}

// Wait blocks the calling process for approximately the given number of
// scheduler ticks (here, cooperative Yield calls) or until ctx is done.
func (s *Scheduler) Wait(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			s.Yield()
		}
	}
	return nil
}

// Block suspends pid until Unblock(pid) is called. The calling goroutine
// for pid is expected to be the one invoking Block on itself in the single
// kernel address space model; tests may call it for any pid.
func (s *Scheduler) Block(pid PID) error {
	s.mu.Lock()
	p, ok := s.procs[pid]
	if !ok {
		s.mu.Unlock()
		return ErrNoSuchProcess
	}
	if p.blockCh == nil {
		p.blockCh = make(chan struct{})
	}
	ch := p.blockCh
	p.state = Waiting
	s.mu.Unlock()

	<-ch
	return nil
}

func (s *Scheduler) Unblock(pid PID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return ErrNoSuchProcess
	}
	if p.blockCh != nil {
		close(p.blockCh)
		p.blockCh = nil
	}
	if p.state == Waiting {
		p.state = Ready
	}
	return nil
}

// Kill terminates pid. A cooperative (force=false) kill only ever succeeds
// here too: the reference scheduler has no userland handler registration
// to consult, so force only changes whether a caller above this facade may
// retry; see kernel/exception for the policy that uses it.
func (s *Scheduler) Kill(pid PID, force bool) error {
	return s.SetState(pid, Stopped)
}

func (s *Scheduler) SetCurrentDirectory(pid PID, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return ErrNoSuchProcess
	}
	p.cwd = path
	return nil
}

func (s *Scheduler) CurrentDirectory(pid PID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return "", ErrNoSuchProcess
	}
	return p.cwd, nil
}

// SetIOPerm mutates pid's own port-permission bitmap. Per §5's shared
// resource policy, only the owning pid is expected to call this for
// itself; the scheduler does not enforce that here (it has no notion of
// the true caller beyond "current"), leaving enforcement to the syscall
// gateway's privilege check.
func (s *Scheduler) SetIOPerm(pid PID, port uint16, allow bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return ErrNoSuchProcess
	}
	if allow {
		p.ioPerm[port] = true
	} else {
		delete(p.ioPerm, port)
	}
	return nil
}

func (s *Scheduler) IOPerm(pid PID, port uint16) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.procs[pid]
	if !ok {
		return false, ErrNoSuchProcess
	}
	return p.ioPerm[port], nil
}

var _ Facade = (*Scheduler)(nil)
