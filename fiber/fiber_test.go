package fiber

import (
	"errors"
	"testing"

	"github.com/aqualang/aquart/value"
)

func TestLifecycle(t *testing.T) {
	ran := false
	f := New(func() { ran = true })

	if f.State() != StateReady {
		t.Fatalf("new fiber should be ready, got %s", f.State())
	}

	if err := f.Start(); err != nil {
		t.Fatalf("start from ready failed: %v", err)
	}
	if !ran {
		t.Error("body was not executed")
	}
	if f.State() != StateFinished {
		t.Errorf("expected finished, got %s", f.State())
	}
	if !f.Finished() {
		t.Error("Finished should report true for a terminal fiber")
	}
}

func TestStartOnlyValidFromReady(t *testing.T) {
	f := New(func() {})
	if err := f.Start(); err != nil {
		t.Fatalf("first start failed: %v", err)
	}

	err := f.Start()
	if err == nil {
		t.Fatal("starting a finished fiber should fail")
	}

	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if te.From != StateFinished || te.To != StateRunning {
		t.Errorf("unexpected transition error: %v", te)
	}
}

func TestInvalidResumeIsReported(t *testing.T) {
	f := New(func() {})

	err := f.Resume()
	if err == nil {
		t.Fatal("resuming a fiber that is not waiting should fail")
	}
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if f.State() != StateReady {
		t.Errorf("failed transition must not change state, got %s", f.State())
	}
}

func TestWaitResumeFromBody(t *testing.T) {
	var f *Fiber
	var observed []State

	f = New(func() {
		if err := f.Wait(); err != nil {
			t.Errorf("wait from running failed: %v", err)
		}
		observed = append(observed, f.State())
		if err := f.Resume(); err != nil {
			t.Errorf("resume from waiting failed: %v", err)
		}
		observed = append(observed, f.State())
	})

	if err := f.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if len(observed) != 2 || observed[0] != StateWaiting || observed[1] != StateRunning {
		t.Errorf("expected waiting then running, got %v", observed)
	}
	if f.State() != StateFinished {
		t.Errorf("expected finished after body return, got %s", f.State())
	}
}

func TestYieldFromBody(t *testing.T) {
	var f *Fiber
	f = New(func() {
		if err := f.Yield(); err != nil {
			t.Errorf("yield from running failed: %v", err)
		}
	})

	if err := f.Start(); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	// The body returned; terminal state wins over the recorded yield.
	if f.State() != StateFinished {
		t.Errorf("expected finished, got %s", f.State())
	}
}

func TestPanicBecomesError(t *testing.T) {
	f := New(func() { panic("boom") })

	if err := f.Start(); err != nil {
		t.Fatalf("start itself should not fail: %v", err)
	}
	if f.State() != StateError {
		t.Fatalf("expected error state, got %s", f.State())
	}
	if f.Err() == nil {
		t.Error("expected recorded failure")
	}
	if !f.Finished() {
		t.Error("error state is terminal")
	}
}

func TestFailFromAnyState(t *testing.T) {
	f := New(func() {})
	f.Fail(errors.New("cancelled"))
	if f.State() != StateError {
		t.Errorf("expected error state, got %s", f.State())
	}
}

func TestLocals(t *testing.T) {
	f := New(func() {})

	if _, ok := f.Local("missing"); ok {
		t.Error("absent key should report ok=false")
	}

	f.SetLocal("x", value.Int(7))
	v, ok := f.Local("x")
	if !ok {
		t.Fatal("stored key not found")
	}
	i, err := v.AsInt()
	if err != nil || i != 7 {
		t.Errorf("expected 7, got %v (%v)", i, err)
	}

	f.SetLocal("y", value.Text("hi"))
	if got := len(f.LocalValues()); got != 2 {
		t.Errorf("expected 2 local values, got %d", got)
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	a := New(func() {})
	b := New(func() {})
	c := New(func() {})

	if !(a.ID() < b.ID() && b.ID() < c.ID()) {
		t.Errorf("ids should increase monotonically: %d %d %d", a.ID(), b.ID(), c.ID())
	}
}

func TestStateString(t *testing.T) {
	names := map[State]string{
		StateReady:    "ready",
		StateRunning:  "running",
		StateWaiting:  "waiting",
		StateFinished: "finished",
		StateError:    "error",
	}
	for s, want := range names {
		if s.String() != want {
			t.Errorf("expected %q, got %q", want, s.String())
		}
	}
}
