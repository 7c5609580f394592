package core

import (
	"reflect"
	"testing"
)

func TestDispatchPriorityOrder(t *testing.T) {
	var s Scheduler
	var order []string

	mk := func(name string, prio uint8) *Task {
		t := &Task{Name: name, Priority: prio}
		t.Body = func() { order = append(order, name) }
		s.Add(t)
		return t
	}
	low := mk("low", 1)
	mid := mk("mid", 2)
	high := mk("high", 3)

	s.Wake(low)
	s.Wake(high)
	s.Wake(mid)
	s.Dispatch()

	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("dispatch order = %v, want %v", order, want)
	}
}

// TestPreemption wakes a high-priority task from inside a running
// low-priority body; the high task must run to completion before the low
// body's remaining statements.
func TestPreemption(t *testing.T) {
	var s Scheduler
	var order []string

	high := &Task{Name: "high", Priority: 3}
	high.Body = func() { order = append(order, "high") }

	low := &Task{Name: "low", Priority: 1}
	low.Body = func() {
		order = append(order, "low-start")
		s.Wake(high)
		order = append(order, "low-end")
	}
	s.Add(high)
	s.Add(low)

	s.Wake(low)
	s.Dispatch()

	want := []string{"low-start", "high", "low-end"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("preemption order = %v, want %v", order, want)
	}
	if low.State() != TaskIdle || high.State() != TaskIdle {
		t.Errorf("tasks not idle after dispatch: low=%d high=%d", low.State(), high.State())
	}
}

// TestNoPreemptionByEqualPriority: an equal-priority wake is deferred
// until the running body finishes.
func TestNoPreemptionByEqualPriority(t *testing.T) {
	var s Scheduler
	var order []string

	other := &Task{Name: "other", Priority: 2}
	other.Body = func() { order = append(order, "other") }

	first := &Task{Name: "first", Priority: 2}
	first.Body = func() {
		order = append(order, "first-start")
		s.Wake(other)
		order = append(order, "first-end")
	}
	s.Add(other)
	s.Add(first)

	s.Wake(first)
	s.Dispatch()

	want := []string{"first-start", "first-end", "other"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

// TestWakeCoalesces: waking an already-pending task is a single trigger.
func TestWakeCoalesces(t *testing.T) {
	var s Scheduler
	runs := 0

	task := &Task{Name: "task", Priority: 1}
	task.Body = func() { runs++ }
	s.Add(task)

	s.Wake(task)
	s.Wake(task)
	s.Wake(task)
	s.Dispatch()

	if runs != 1 {
		t.Errorf("coalesced wakes ran body %d times, want 1", runs)
	}
}

// TestSelfWakeIgnored: a running task waking itself is coalesced away, so
// a body cannot starve lower priorities by retriggering itself.
func TestSelfWakeIgnored(t *testing.T) {
	var s Scheduler
	runs := 0

	var task *Task
	task = &Task{Name: "task", Priority: 1}
	task.Body = func() {
		runs++
		s.Wake(task)
	}
	s.Add(task)

	s.Wake(task)
	s.Dispatch()

	if runs != 1 {
		t.Errorf("self-waking body ran %d times, want 1", runs)
	}
}

// TestNestedPreemption: a mid-priority body preempted by high, itself
// started from low.
func TestNestedPreemption(t *testing.T) {
	var s Scheduler
	var order []string

	high := &Task{Name: "high", Priority: 3}
	high.Body = func() { order = append(order, "high") }

	mid := &Task{Name: "mid", Priority: 2}
	mid.Body = func() {
		order = append(order, "mid-start")
		s.Wake(high)
		order = append(order, "mid-end")
	}

	low := &Task{Name: "low", Priority: 1}
	low.Body = func() {
		order = append(order, "low-start")
		s.Wake(mid)
		order = append(order, "low-end")
	}
	s.Add(high)
	s.Add(mid)
	s.Add(low)

	s.Wake(low)
	s.Dispatch()

	want := []string{"low-start", "mid-start", "high", "mid-end", "low-end"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("nested preemption order = %v, want %v", order, want)
	}
}
