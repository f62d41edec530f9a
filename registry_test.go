package hxstate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

// clicker is a fully hosted component: renderable, with transitions.
type clicker struct {
	*Definition[testProps, testState]
}

func newClicker() *clicker {
	c := &clicker{
		Definition: New[testProps, testState]("clicker").Template("clicker.templ"),
	}
	c.Transition("increment", c.increment)
	c.Transition("reset", c.reset).Method(http.MethodDelete)
	return c
}

func (c *clicker) ResolveState(ctx context.Context, props testProps) (testState, error) {
	return testState{Count: 0}, nil
}

func (c *clicker) increment(ctx context.Context, inst *Instance[testProps, testState], r *http.Request) error {
	state := inst.State()
	state.Count++
	inst.SetState(state)
	return nil
}

func (c *clicker) reset(ctx context.Context, inst *Instance[testProps, testState], r *http.Request) error {
	inst.SetState(testState{Count: 0})
	return nil
}

func (c *clicker) Render(ctx context.Context, inst *Instance[testProps, testState]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="%s">count=%d</div>`, inst.Host(), inst.State().Count)
		return err
	})
}

func newTestRegistry() *Registry {
	return NewRegistry([]byte("registry-test-key"))
}

func TestMountValidation(t *testing.T) {
	t.Run("abstract definition is rejected", func(t *testing.T) {
		reg := newTestRegistry()
		bare := &clicker{Definition: New[testProps, testState]("bare-clicker")}
		err := Mount[testProps, testState](reg, bare)
		if !errors.Is(err, ErrNoTemplate) {
			t.Errorf("want ErrNoTemplate, got %v", err)
		}
	})

	t.Run("prefix collision is rejected", func(t *testing.T) {
		reg := newTestRegistry()
		c := newClicker()
		if err := Mount[testProps, testState](reg, c); err != nil {
			t.Fatalf("first mount failed: %v", err)
		}
		err := Mount[testProps, testState](reg, c)
		if err == nil || !strings.Contains(err.Error(), "collision") {
			t.Errorf("second mount of same prefix should collide, got %v", err)
		}
	})

	t.Run("MustMount panics on violation", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("MustMount should panic for an abstract definition")
			}
		}()
		reg := newTestRegistry()
		MustMount[testProps, testState](reg, &clicker{Definition: New[testProps, testState]("panicky")})
	})

	t.Run("mount wires the encoder", func(t *testing.T) {
		reg := newTestRegistry()
		c := newClicker()
		MustMount[testProps, testState](reg, c)
		if c.Encoder() != reg.Encoder() {
			t.Error("mounting should hand the registry encoder to the definition")
		}
	})
}

func TestRegistryColdRender(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	result, err := TestGet(reg, c.Prefix()+"/")
	if err != nil {
		t.Fatalf("TestGet failed: %v", err)
	}

	if !result.IsOK() {
		t.Fatalf("status = %d, want 200", result.StatusCode)
	}
	if !result.HTMLContains("count=0") {
		t.Errorf("cold start should render zero count, got %q", result.HTML)
	}
	if result.HostRef.IsZero() {
		t.Error("response should carry a generated host ref")
	}

	var state testState
	ok, err := result.DecodeState(reg.Encoder(), false, &state)
	if err != nil || !ok {
		t.Fatalf("DecodeState: ok=%v err=%v", ok, err)
	}
	if state.Count != 0 {
		t.Errorf("re-captured state = %+v, want {Count: 0}", state)
	}
}

func TestRegistryResume(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	encoded, err := reg.Encoder().Encode(testState{Count: 41}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	result, err := TestTransition(reg, c.Prefix()+"/", http.MethodGet, map[string]string{"s": encoded})
	if err != nil {
		t.Fatalf("TestTransition failed: %v", err)
	}

	// The clicker's producer returns zero; a 41 proves the recovered state
	// was installed verbatim and resolution skipped.
	if !result.HTMLContains("count=41") {
		t.Errorf("resumed render should show recovered count, got %q", result.HTML)
	}
}

func TestRegistryTransition(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	encoded, err := reg.Encoder().Encode(testState{Count: 41}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	result, err := TestPost(reg, c.Prefix()+"/increment", map[string]string{"s": encoded})
	if err != nil {
		t.Fatalf("TestPost failed: %v", err)
	}

	if !result.IsOK() {
		t.Fatalf("status = %d, want 200", result.StatusCode)
	}
	if !result.HTMLContains("count=42") {
		t.Errorf("transition should render mutated state, got %q", result.HTML)
	}

	var state testState
	if _, err := result.DecodeState(reg.Encoder(), false, &state); err != nil {
		t.Fatalf("DecodeState failed: %v", err)
	}
	if state.Count != 42 {
		t.Errorf("re-captured state = %+v, want {Count: 42}", state)
	}
}

func TestRegistryTransitionErrors(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	tests := []struct {
		name   string
		target string
		method string
		want   int
	}{
		{"unknown transition", c.Prefix() + "/vanish", http.MethodPost, http.StatusNotFound},
		{"method mismatch", c.Prefix() + "/reset", http.MethodPost, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := TestTransition(reg, tt.target, tt.method, nil)
			if err != nil {
				t.Fatalf("TestTransition failed: %v", err)
			}
			if !result.HasStatus(tt.want) {
				t.Errorf("status = %d, want %d", result.StatusCode, tt.want)
			}
		})
	}
}

func TestRegistryRejectsNonHTMXMutation(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	req := httptest.NewRequest(http.MethodPost, c.Prefix()+"/increment", strings.NewReader(""))
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("mutating request without HX-Request header: status = %d, want 403", rec.Code)
	}
}

func TestRegistryRejectsTamperedState(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	encoded, _ := reg.Encoder().Encode(testState{Count: 41}, false)
	tampered := "A" + encoded[1:]

	result, err := TestTransition(reg, c.Prefix()+"/", http.MethodGet, map[string]string{"s": tampered})
	if err != nil {
		t.Fatalf("TestTransition failed: %v", err)
	}
	if !result.HasStatus(http.StatusBadRequest) {
		t.Errorf("status = %d, want 400", result.StatusCode)
	}
}

func TestRegistryColdStartWithoutProducer(t *testing.T) {
	reg := newTestRegistry()
	probe := NewProbe[testProps, testState]("registry-no-producer")
	MustMount[testProps, testState](reg, probe)

	result, err := TestGet(reg, probe.Prefix()+"/")
	if err != nil {
		t.Fatalf("TestGet failed: %v", err)
	}
	if !result.HasStatus(http.StatusInternalServerError) {
		t.Errorf("status = %d, want 500 for missing state producer", result.StatusCode)
	}
}

func TestRegistryHostRefRoundTrip(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	result, err := TestTransition(reg, c.Prefix()+"/", http.MethodGet, map[string]string{"h": "hxs-given"})
	if err != nil {
		t.Fatalf("TestTransition failed: %v", err)
	}
	if result.HostRef != "hxs-given" {
		t.Errorf("HostRef = %q, want the supplied ref", result.HostRef)
	}
}

func TestRegistryMounts(t *testing.T) {
	reg := newTestRegistry()
	c := newClicker()
	MustMount[testProps, testState](reg, c)

	mounts := reg.Mounts()
	if name, ok := mounts[c.Prefix()]; !ok || name != "clicker" {
		t.Errorf("Mounts() = %v, want %q -> clicker", mounts, c.Prefix())
	}
}
