package haltest

import (
	"errors"
	"slices"
	"testing"
)

func TestRecorderLiveAndProblems(t *testing.T) {
	r := newRecorder()
	a := r.acquire("buffer", "a")
	b := r.acquire("surface", "")

	if got, want := r.Live(), []string{"buffer a", "surface"}; !slices.Equal(got, want) {
		t.Errorf("Live() = %q, want %q", got, want)
	}
	r.release(a, "buffer")
	r.release(a, "buffer")
	r.release(b, "surface")

	if len(r.Live()) != 0 {
		t.Errorf("Live() = %q, want empty", r.Live())
	}
	if len(r.Problems()) != 1 {
		t.Errorf("Problems() = %q, want one double release", r.Problems())
	}
	want := []string{"create buffer a", "create surface", "destroy buffer a", "destroy surface"}
	if !slices.Equal(r.Events(), want) {
		t.Errorf("Events() = %q, want %q", r.Events(), want)
	}
}

func TestRecorderPasses(t *testing.T) {
	r := newRecorder()
	for _, e := range []string{"acquire", "begin pass view=x", "draw 3 1 0 0", "end pass", "present", "begin pass view=y", "end pass"} {
		r.record("%s", e)
	}
	passes := r.Passes()
	if len(passes) != 2 {
		t.Fatalf("Passes() = %q, want 2 passes", passes)
	}
	if !slices.Equal(passes[0], []string{"draw 3 1 0 0"}) || len(passes[1]) != 0 {
		t.Errorf("Passes() = %q", passes)
	}
}

func TestRecorderFailures(t *testing.T) {
	r := newRecorder()
	errBoom := errors.New("boom")

	r.FailOnce("Submit", errBoom)
	if err := r.failure("Submit"); !errors.Is(err, errBoom) {
		t.Errorf("first failure = %v, want boom", err)
	}
	if err := r.failure("Submit"); err != nil {
		t.Errorf("second failure = %v, want nil", err)
	}

	r.Fail("Present", errBoom)
	for range 3 {
		if err := r.failure("Present"); !errors.Is(err, errBoom) {
			t.Errorf("persistent failure = %v, want boom", err)
		}
	}
	if n := r.Count("fail "); n != 4 {
		t.Errorf("Count(fail) = %d, want 4", n)
	}
}

func TestBackendSubmitCompletion(t *testing.T) {
	b := New()
	b.Recorder.SetCompletionLag(1)
	inst, err := b.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	adapters := inst.EnumerateAdapters(nil)
	if len(adapters) != 1 || adapters[0].Info.Name != "Test GPU" {
		t.Fatalf("EnumerateAdapters() = %+v", adapters)
	}
	open, err := adapters[0].Adapter.Open(0, adapters[0].Capabilities.Limits)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	for i := uint64(1); i <= 3; i++ {
		if _, err := open.Queue.Submit(nil); err != nil {
			t.Fatal(err)
		}
		if got := open.Queue.PollCompleted(); got != i-1 {
			t.Errorf("after submit %d PollCompleted() = %d, want %d", i, got, i-1)
		}
	}
	if err := open.Device.WaitIdle(); err != nil {
		t.Fatal(err)
	}
	if got := open.Queue.PollCompleted(); got != 3 {
		t.Errorf("after WaitIdle PollCompleted() = %d, want 3", got)
	}

	open.Device.Destroy()
	adapters[0].Adapter.Destroy()
	inst.Destroy()
	if len(b.Recorder.Live()) != 0 || len(b.Recorder.Problems()) != 0 {
		t.Errorf("Live() = %q, Problems() = %q", b.Recorder.Live(), b.Recorder.Problems())
	}
}
