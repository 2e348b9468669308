// Package haltest provides a recording HAL backend for tests.
//
// The backend delegates to the wgpu noop backend and writes every resource
// creation, release and render-pass command to a shared Recorder, so tests
// can assert ordering, exactly-once release and the per-frame command
// stream. Individual operations can be made to fail.
package haltest

import (
	"fmt"
	"slices"
	"strings"
)

// Recorder is the event log shared by every object of one Backend.
type Recorder struct {
	events   []string
	live     map[int]string
	nextID   int
	problems []string
	failures map[string]*failure
	lag      uint64
}

type failure struct {
	err  error
	once bool
}

func newRecorder() *Recorder {
	return &Recorder{
		live:     make(map[int]string),
		failures: make(map[string]*failure),
	}
}

func (r *Recorder) record(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

// acquire registers a new live object and records its creation.
func (r *Recorder) acquire(kind, label string) int {
	r.nextID++
	name := strings.TrimSpace(kind + " " + label)
	r.live[r.nextID] = name
	r.record("create %s", name)
	return r.nextID
}

// release records the destruction of object id. Releasing an object twice
// or one that was never created is reported by Problems.
func (r *Recorder) release(id int, kind string) {
	name, ok := r.live[id]
	if !ok {
		r.problems = append(r.problems, fmt.Sprintf("release of dead or unknown %s #%d", kind, id))
		return
	}
	delete(r.live, id)
	r.record("destroy %s", name)
}

// Events returns every recorded event in order.
func (r *Recorder) Events() []string {
	return slices.Clone(r.events)
}

// Clear drops the recorded events. Live objects stay tracked.
func (r *Recorder) Clear() {
	r.events = nil
}

// Index returns the position of the first event equal to e, or -1.
func (r *Recorder) Index(e string) int {
	return slices.Index(r.events, e)
}

// Count returns the number of events starting with prefix.
func (r *Recorder) Count(prefix string) int {
	n := 0
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			n++
		}
	}
	return n
}

// Filter returns the events starting with prefix, in order.
func (r *Recorder) Filter(prefix string) []string {
	var out []string
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Live returns the sorted names of objects created and not yet destroyed.
func (r *Recorder) Live() []string {
	out := make([]string, 0, len(r.live))
	for _, name := range r.live {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Problems returns misuse detected while recording, such as double release.
func (r *Recorder) Problems() []string {
	return slices.Clone(r.problems)
}

// Passes splits the events into render passes: the commands recorded
// between each "begin pass" and the matching "end pass", excluding both.
func (r *Recorder) Passes() [][]string {
	var passes [][]string
	var cur []string
	in := false
	for _, e := range r.events {
		switch {
		case strings.HasPrefix(e, "begin pass"):
			in, cur = true, nil
		case e == "end pass":
			if in {
				passes = append(passes, cur)
			}
			in = false
		case in:
			cur = append(cur, e)
		}
	}
	return passes
}

// Fail makes every later call of op return err. Operation names are the
// HAL method names, such as "CreateRenderPipeline" or "AcquireTexture".
func (r *Recorder) Fail(op string, err error) {
	r.failures[op] = &failure{err: err}
}

// FailOnce makes the next call of op return err.
func (r *Recorder) FailOnce(op string, err error) {
	r.failures[op] = &failure{err: err, once: true}
}

func (r *Recorder) failure(op string) error {
	f, ok := r.failures[op]
	if !ok {
		return nil
	}
	if f.once {
		delete(r.failures, op)
	}
	r.record("fail %s", op)
	return f.err
}

// SetCompletionLag makes the queue report submissions complete only after
// n newer submissions, or after the device waits for idle.
func (r *Recorder) SetCompletionLag(n uint64) {
	r.lag = n
}
