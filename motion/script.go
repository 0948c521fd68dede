package motion

import (
	"container/heap"
	"encoding/json"
	"time"
)

// StepKind classifies a recorded Step.
type StepKind string

const (
	StepTween StepKind = "tween"
	StepClass StepKind = "class"
	StepSwap  StepKind = "swap"
	StepKill  StepKind = "kill" // a tween on Target was superseded
)

// Step is one entry of a recorded timeline.
type Step struct {
	At       time.Duration
	Kind     StepKind
	Target   string
	Props    Props
	Duration time.Duration
	Class    string
	On       bool
	Source   string
}

type stepJSON struct {
	At       int64    `json:"at"`
	Kind     StepKind `json:"kind"`
	Target   string   `json:"target"`
	Props    Props    `json:"props,omitempty"`
	Duration int64    `json:"duration,omitempty"`
	Class    string   `json:"class,omitempty"`
	On       bool     `json:"on,omitempty"`
	Source   string   `json:"source,omitempty"`
}

// MarshalJSON encodes times as milliseconds for the client player.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepJSON{
		At:       s.At.Milliseconds(),
		Kind:     s.Kind,
		Target:   s.Target,
		Props:    s.Props,
		Duration: s.Duration.Milliseconds(),
		Class:    s.Class,
		On:       s.On,
		Source:   s.Source,
	})
}

// Script is a Tweener on a virtual clock. Nothing animates: tweens and
// delays are recorded as a timeline and their completions fire in time
// order when the clock advances.
type Script struct {
	now   time.Duration
	seq   int
	queue eventQueue
	steps []Step
}

// NewScript returns an empty script at time zero.
func NewScript() *Script {
	return &Script{}
}

// Now returns the virtual time.
func (s *Script) Now() time.Duration {
	return s.now
}

// Steps returns the recorded timeline.
func (s *Script) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Tween records a tween and schedules done at its end.
func (s *Script) Tween(target string, to Props, d time.Duration, done func()) Handle {
	s.steps = append(s.steps, Step{At: s.now, Kind: StepTween, Target: target, Props: to, Duration: d})
	ev := s.schedule(d, done)
	return &scriptHandle{s: s, ev: ev, target: target, tween: true}
}

// After schedules fn at now+d.
func (s *Script) After(d time.Duration, fn func()) Handle {
	return &scriptHandle{s: s, ev: s.schedule(d, fn)}
}

// Toggle records a class change.
func (s *Script) Toggle(target, class string, on bool) {
	s.steps = append(s.steps, Step{At: s.now, Kind: StepClass, Target: target, Class: class, On: on})
}

// Swap records a content swap.
func (s *Script) Swap(target, source string) {
	s.steps = append(s.steps, Step{At: s.now, Kind: StepSwap, Target: target, Source: source})
}

// Plan is a finished timeline in the form the client script plays.
type Plan struct {
	Steps []Step `json:"steps"`
	Total int64  `json:"total"` // ms at which the last event fired
}

// Plan runs the script to completion and returns its timeline.
func (s *Script) Plan() Plan {
	s.Run()
	return Plan{Steps: s.Steps(), Total: s.now.Milliseconds()}
}

// Run fires every pending event in time order.
func (s *Script) Run() {
	for s.queue.Len() > 0 {
		s.fire(heap.Pop(&s.queue).(*event))
	}
}

// Advance fires the events due within d and moves the clock forward by d.
func (s *Script) Advance(d time.Duration) {
	until := s.now + d
	for s.queue.Len() > 0 && s.queue[0].at <= until {
		s.fire(heap.Pop(&s.queue).(*event))
	}
	s.now = until
}

func (s *Script) fire(ev *event) {
	if ev.cancelled {
		return
	}
	s.now = ev.at
	ev.fired = true
	if ev.fn != nil {
		ev.fn()
	}
}

func (s *Script) schedule(d time.Duration, fn func()) *event {
	s.seq++
	ev := &event{at: s.now + d, seq: s.seq, fn: fn}
	heap.Push(&s.queue, ev)
	return ev
}

type scriptHandle struct {
	s      *Script
	ev     *event
	target string
	tween  bool
}

func (h *scriptHandle) Cancel() {
	if h.ev.cancelled || h.ev.fired {
		return
	}
	h.ev.cancelled = true
	if h.tween {
		h.s.steps = append(h.s.steps, Step{At: h.s.now, Kind: StepKill, Target: h.target})
	}
}

type event struct {
	at        time.Duration
	seq       int
	fn        func()
	cancelled bool
	fired     bool
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }
func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	return q[i].seq < q[j].seq
}
func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x any)   { *q = append(*q, x.(*event)) }
func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}
