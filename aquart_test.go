package aquart

import (
	"sync/atomic"
	"testing"

	"github.com/aqualang/aquart/value"
)

func TestFacadeRunAndWait(t *testing.T) {
	a := New(func(o *Options) { o.Workers = 2 })
	defer a.Stop()

	var count atomic.Int64
	a.RunAndWait(
		func() { count.Add(1) },
		func() { count.Add(1) },
		func() { count.Add(1) },
	)

	if count.Load() != 3 {
		t.Errorf("expected 3 executions, got %d", count.Load())
	}
	if a.Runtime().ActiveFibers() != 0 {
		t.Errorf("expected quiescence, %d fibers active", a.Runtime().ActiveFibers())
	}
}

func TestFacadeChannelRoundTrip(t *testing.T) {
	a := New(func(o *Options) { o.Workers = 2 })
	defer a.Stop()

	ch := a.MakeChannel(1)
	a.Spawn(func() {
		_ = ch.Send(value.Text("hello"))
	})

	v, ok := ch.Receive()
	if !ok {
		t.Fatal("no value received")
	}
	s, err := v.AsText()
	if err != nil || s != "hello" {
		t.Errorf("expected %q, got %q (%v)", "hello", s, err)
	}
	a.WaitAll()
}

func TestFacadeGlobals(t *testing.T) {
	a := New(func(o *Options) { o.Workers = 1 })
	defer a.Stop()

	a.SetGlobal("answer", value.Int(42))
	v, ok := a.Global("answer")
	if !ok {
		t.Fatal("stored global not found")
	}
	if !v.Equal(value.Int(42)) {
		t.Errorf("expected 42, got %s", v)
	}
}

func TestFacadeStopAndRestart(t *testing.T) {
	a := New(func(o *Options) { o.Workers = 1 })
	a.Stop()

	var ran atomic.Bool
	a.Spawn(func() { ran.Store(true) })

	a.Start()
	defer a.Stop()
	a.WaitAll()

	if !ran.Load() {
		t.Error("fiber spawned while stopped should run after restart")
	}
}
