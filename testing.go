package hxstate

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/a-h/templ"
)

// TestResult holds the result of exercising a mounted component for
// testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, and the re-captured state carried in the response.
type TestResult struct {
	HTML         string
	StatusCode   int
	Headers      http.Header
	EncodedState string
	HostRef      ElementRef
}

// TestHydrate drives the full lifecycle for a component outside HTTP.
//
// Use this for pure unit tests of lifecycle behavior when you control
// props and recovered state directly. A fresh host ref is generated.
//
//	inst, err := hxstate.TestHydrate(c, props, hxstate.None[State]())
//	if inst.State().Count != 0 {
//	    t.Fatal("expected cold-start state")
//	}
func TestHydrate[P, S any](c ComponentType[P, S], props P, recovered Option[S]) (*Instance[P, S], error) {
	return Hydrate(context.Background(), c, NewElementRef(), props, recovered)
}

// TestRenderInstance hydrates and renders a component, returning testable
// output. This bypasses URL encoding/decoding and HTTP mechanics entirely.
//
// For testing transitions (including encoding, routing, and state
// re-capture), use TestTransition or the TestGet/TestPost wrappers.
func TestRenderInstance[P, S any](c interface {
	ComponentType[P, S]
	Renderer[P, S]
}, props P, recovered Option[S]) (*TestResult, error) {
	ctx := context.Background()

	inst, err := Hydrate(ctx, c, NewElementRef(), props, recovered)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.Render(ctx, inst).Render(ctx, &buf); err != nil {
		return nil, err
	}

	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
		HostRef:    inst.Host(),
	}, nil
}

// TestTransition simulates a request against a registry-hosted component.
//
// This tests the full HTTP hosting path: wire decoding, hydration,
// transition dispatch, rendering, and state re-capture. Wire values (the
// "p", "s", and "h" params) go in formData for mutating methods and are
// appended to the URL for GET.
//
//	result, err := hxstate.TestTransition(reg, url, "POST", map[string]string{
//	    "s": encodedState,
//	})
//	if !result.IsOK() {
//	    t.Fatal("expected success")
//	}
func TestTransition(reg *Registry, target string, method string, formData map[string]string) (*TestResult, error) {
	form := url.Values{}
	for k, v := range formData {
		form.Set(k, v)
	}

	var req *http.Request
	if method == http.MethodGet || method == http.MethodHead {
		if enc := form.Encode(); enc != "" {
			if strings.Contains(target, "?") {
				target += "&" + enc
			} else {
				target += "?" + enc
			}
		}
		req = httptest.NewRequest(method, target, strings.NewReader(""))
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("HX-Request", "true")

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)

	return &TestResult{
		HTML:         rec.Body.String(),
		StatusCode:   rec.Code,
		Headers:      rec.Header(),
		EncodedState: rec.Header().Get(StateHeader),
		HostRef:      ElementRef(rec.Header().Get(HostHeader)),
	}, nil
}

// TestGet simulates a GET render against a registry-hosted component.
func TestGet(reg *Registry, target string) (*TestResult, error) {
	return TestTransition(reg, target, http.MethodGet, nil)
}

// TestPost simulates a POST against a registry-hosted component.
func TestPost(reg *Registry, target string, formData map[string]string) (*TestResult, error) {
	return TestTransition(reg, target, http.MethodPost, formData)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// HasStatus checks if the status code matches.
func (r *TestResult) HasStatus(code int) bool {
	return r.StatusCode == code
}

// HasHeader checks if a header is set with the given value.
func (r *TestResult) HasHeader(key, value string) bool {
	return r.Headers.Get(key) == value
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// DecodeState decodes the re-captured state from the response into v.
// Returns false when the response carried no state header.
func (r *TestResult) DecodeState(enc *Encoder, sensitive bool, v any) (bool, error) {
	if r.EncodedState == "" {
		return false, nil
	}
	if err := wrapEncodingError(enc.Decode(r.EncodedState, sensitive, v)); err != nil {
		return false, err
	}
	return true, nil
}

// Probe is a call-counting component double for lifecycle tests.
//
// It records every ResolveState and Init invocation, delegating to
// ResolveStateFunc/InitFunc when set and to the Definition defaults
// otherwise (so a Probe without a ResolveStateFunc fails cold starts with
// MissingStateProducerError, exactly like a component that never overrode
// the producer).
//
//	probe := hxstate.NewProbe[Props, State]("probe")
//	probe.ResolveStateFunc = func(ctx context.Context, p Props) (State, error) {
//	    return State{}, nil
//	}
//	_, _ = hxstate.TestHydrate[Props, State](probe, props, hxstate.Some(saved))
//	if probe.ResolveCalls != 0 {
//	    t.Fatal("recovered state must skip resolution")
//	}
type Probe[P, S any] struct {
	*Definition[P, S]

	ResolveStateFunc func(ctx context.Context, props P) (S, error)
	InitFunc         func(ctx context.Context, inst *Instance[P, S]) error
	RenderFunc       func(ctx context.Context, inst *Instance[P, S]) templ.Component

	ResolveCalls  int
	InitCalls     int
	ResolvedProps []P
}

// NewProbe creates a probe with a declared template so it is mountable.
func NewProbe[P, S any](name string) *Probe[P, S] {
	return &Probe[P, S]{
		Definition: New[P, S](name).Template(TemplateRef(name + ".templ")),
	}
}

// ResolveState counts the call and delegates.
func (p *Probe[P, S]) ResolveState(ctx context.Context, props P) (S, error) {
	p.ResolveCalls++
	p.ResolvedProps = append(p.ResolvedProps, props)
	if p.ResolveStateFunc != nil {
		return p.ResolveStateFunc(ctx, props)
	}
	return p.Definition.ResolveState(ctx, props)
}

// Init counts the call and delegates.
func (p *Probe[P, S]) Init(ctx context.Context, inst *Instance[P, S]) error {
	p.InitCalls++
	if p.InitFunc != nil {
		return p.InitFunc(ctx, inst)
	}
	return p.Definition.Init(ctx, inst)
}

// Render delegates to RenderFunc, or renders nothing.
func (p *Probe[P, S]) Render(ctx context.Context, inst *Instance[P, S]) templ.Component {
	if p.RenderFunc != nil {
		return p.RenderFunc(ctx, inst)
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return nil
	})
}
