package core

// Preemptive, priority-ordered task dispatch. Tasks are statically defined
// at startup, run to completion, and never block or yield internally; the
// only suspension point is preemption by a strictly higher-priority task.
// On hardware, triggers arrive from interrupt handlers; on the host the
// same code paths are driven synchronously, which makes the preemption
// order directly observable in tests.

// TaskState tracks a task through Idle -> Ready -> Running -> Idle, with
// Running -> Preempted -> Running when a higher-priority task intervenes.
// A task never moves from Running back to Ready: re-triggering a non-idle
// task is coalesced, bounding the pending depth to one per task.
type TaskState uint8

const (
	TaskIdle TaskState = iota
	TaskReady
	TaskRunning
	TaskPreempted
)

// Task is a schedulable unit: a static priority and a run-to-completion
// body. Tasks are created once at startup and never destroyed.
type Task struct {
	Name     string
	Priority uint8 // higher value dispatches first
	Body     func()

	state TaskState
}

// State returns the task's current scheduling state.
func (t *Task) State() TaskState {
	return t.state
}

// Scheduler owns a static task table. Add all tasks before the first Wake;
// the table is never modified afterwards.
type Scheduler struct {
	tasks   []*Task
	current *Task
}

// Add registers a task in the static table.
func (s *Scheduler) Add(t *Task) {
	s.tasks = append(s.tasks, t)
}

// Wake marks a task ready. Safe to call from interrupt context. If the
// woken task has strictly higher priority than the one currently running
// it is dispatched immediately, preempting the current task; the preempted
// task resumes from where it left off once no higher-priority work
// remains. Waking a task that is already pending or running is ignored.
func (s *Scheduler) Wake(t *Task) {
	state := disableInterrupts()
	if t.state != TaskIdle {
		restoreInterrupts(state)
		return
	}
	t.state = TaskReady
	restoreInterrupts(state)

	if s.current != nil && t.Priority > s.current.Priority {
		preempted := s.current
		preempted.state = TaskPreempted
		s.Dispatch()
		preempted.state = TaskRunning
		s.current = preempted
	}
}

// Dispatch runs ready tasks in priority order until none remain above the
// currently running priority. The main loop calls this with no task
// running; Wake calls it to effect preemption.
func (s *Scheduler) Dispatch() {
	for {
		t := s.nextReady()
		if t == nil {
			return
		}
		prev := s.current
		t.state = TaskRunning
		s.current = t
		t.Body()
		t.state = TaskIdle
		s.current = prev
	}
}

// nextReady returns the highest-priority ready task above the running
// priority, or nil. Ties break by table order.
func (s *Scheduler) nextReady() *Task {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	var best *Task
	for _, t := range s.tasks {
		if t.state != TaskReady {
			continue
		}
		if s.current != nil && t.Priority <= s.current.Priority {
			continue
		}
		if best == nil || t.Priority > best.Priority {
			best = t
		}
	}
	return best
}
