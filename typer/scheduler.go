package typer

import (
	"errors"
	"sync"
)

// ErrBusy is returned by Submit while another emission is running
var ErrBusy = errors.New("typing already in progress")

// Task is the pending outcome of one submitted emission
type Task struct {
	done   chan struct{}
	result Result
	err    error
}

// Done is closed when the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its outcome
func (t *Task) Wait() (Result, error) {
	<-t.done
	return t.result, t.err
}

// Scheduler runs at most one emission at a time
type Scheduler struct {
	mu      sync.Mutex
	current *Task
}

// NewScheduler creates an idle scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Submit starts fn on its own goroutine, or returns ErrBusy if a task is
// still running
func (s *Scheduler) Submit(fn func() (Result, error)) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, ErrBusy
	}

	task := &Task{done: make(chan struct{})}
	s.current = task

	go func() {
		defer func() {
			s.mu.Lock()
			s.current = nil
			s.mu.Unlock()
			close(task.done)
		}()
		task.result, task.err = fn()
	}()

	return task, nil
}

// Busy reports whether a task is running
func (s *Scheduler) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// Wait blocks until the running task, if any, has finished
func (s *Scheduler) Wait() {
	s.mu.Lock()
	task := s.current
	s.mu.Unlock()

	if task != nil {
		<-task.done
	}
}
