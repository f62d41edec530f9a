package hxstate

import (
	"context"
	"testing"
)

func TestSetStateBeforeResolutionPanics(t *testing.T) {
	inst := NewInstance(NewElementRef(), testProps{}, None[testState]())

	defer func() {
		if recover() == nil {
			t.Error("SetState in state-absent phase should panic")
		}
	}()
	inst.SetState(testState{Count: 1})
}

func TestSetStateAfterResolution(t *testing.T) {
	inst := NewInstance(NewElementRef(), testProps{}, Some(testState{Count: 1}))
	inst.SetState(testState{Count: 2})

	if inst.State() != (testState{Count: 2}) {
		t.Errorf("State() = %+v, want {Count: 2}", inst.State())
	}
}

func TestTransientData(t *testing.T) {
	probe := NewProbe[testProps, testState]("transient")
	probe.InitFunc = func(ctx context.Context, inst *Instance[testProps, testState]) error {
		inst.SetTransient("derived")
		return nil
	}

	inst, err := Hydrate(context.Background(), probe, NewElementRef(), testProps{}, Some(testState{Count: 4}))
	if err != nil {
		t.Fatalf("Hydrate failed: %v", err)
	}
	if inst.Transient() != "derived" {
		t.Errorf("Transient() = %v, want value set by Init", inst.Transient())
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseStateAbsent, "state-absent"},
		{PhaseStateResolved, "state-resolved"},
		{PhaseReady, "ready"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestNewElementRef(t *testing.T) {
	a := NewElementRef()
	b := NewElementRef()

	if a.IsZero() || b.IsZero() {
		t.Error("generated refs must not be zero")
	}
	if a == b {
		t.Error("generated refs must be unique")
	}
	if ElementRef("").IsZero() != true {
		t.Error("empty ref should be zero")
	}
}
