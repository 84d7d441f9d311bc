// Package tasks runs the firmware's fixed set of long-lived tasks. The task
// set is registered during boot and never grows afterwards; every task loops
// until power-off and yields at its channel and timer waits, which are the
// only suspension points. Tasks communicate solely through the shared packet
// store, never by sharing capabilities.
package tasks

import (
	"errors"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// ErrRunning rejects registration or a second Run once the scheduler has
// started: the process moves from Booting to Running exactly once.
var ErrRunning = errors.New("tasks: scheduler already running")

type task struct {
	name string
	run  func()
}

// Scheduler owns the fixed task set. Construct one per process during boot,
// register every task, then call Run.
type Scheduler struct {
	mu      sync.Mutex
	tasks   []task
	running bool
}

// New returns an empty scheduler in the Booting state.
func New() *Scheduler {
	return &Scheduler{}
}

// Spawn registers a named task to be started by Run. Registration after Run
// is rejected; the task set is fixed at boot.
func (s *Scheduler) Spawn(name string, run func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrRunning
	}
	for _, t := range s.tasks {
		if t.name == name {
			return fmt.Errorf("tasks: duplicate task %q", name)
		}
	}
	s.tasks = append(s.tasks, task{name: name, run: run})
	return nil
}

// Names lists the registered tasks in registration order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		names[i] = t.name
	}
	return names
}

// Run starts every registered task and never returns under normal operation.
// A second Run is rejected. A task that panics is logged and not restarted;
// the rest of the process keeps going.
func (s *Scheduler) Run() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	tasks := s.tasks
	s.mu.Unlock()

	for _, t := range tasks {
		t := t
		log.Infof("starting task %s", t.name)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("task %s terminated: %v", t.name, r)
				}
			}()
			t.run()
		}()
	}

	select {}
}
