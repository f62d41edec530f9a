package hxstate

import (
	"context"
	"net/http"
)

// TransitionFunc is a named state-mutating operation. It runs against a
// ready instance - the registry drives the full hydration lifecycle before
// applying a transition, so handlers can assume valid state. The request is
// available for form values; mutate state via inst.SetState.
type TransitionFunc[P, S any] func(ctx context.Context, inst *Instance[P, S], r *http.Request) error

// transitionDef holds metadata about a registered transition.
type transitionDef[P, S any] struct {
	name   string
	method string
	apply  TransitionFunc[P, S]
}

// Transition registers a named transition with default POST method.
//
// Transitions use semantic names that describe intent (increment, rename,
// approve) rather than HTTP methods. After a transition is applied the
// registry re-renders the component and re-serializes the mutated state
// into the response, which is how mutations get re-captured.
//
// Returns *TransitionBuilder to optionally override the HTTP method:
//
//	c.Transition("increment", c.increment)  // POST by default
//	c.Transition("reset", c.reset).Method(http.MethodDelete)
func (d *Definition[P, S]) Transition(name string, fn TransitionFunc[P, S]) *TransitionBuilder[P, S] {
	d.transitions[name] = &transitionDef[P, S]{
		name:   name,
		method: http.MethodPost, // Default to POST for mutations
		apply:  fn,
	}
	return &TransitionBuilder[P, S]{transition: d.transitions[name]}
}

// Transitions returns the names of registered transitions.
func (d *Definition[P, S]) Transitions() []string {
	names := make([]string, 0, len(d.transitions))
	for name := range d.transitions {
		names = append(names, name)
	}
	return names
}

// transitionTable exposes the registered transitions to the registry.
// Satisfied by embedding *Definition, which is how user components meet
// the Mountable contract without implementing this themselves.
func (d *Definition[P, S]) transitionTable() map[string]*transitionDef[P, S] {
	return d.transitions
}

// TransitionBuilder configures transition registration.
//
// Returned by Definition.Transition() to allow optional method override:
//
//	c.Transition("increment", fn)  // POST by default
//	c.Transition("reset", fn).Method(http.MethodDelete)
type TransitionBuilder[P, S any] struct {
	transition *transitionDef[P, S]
}

// Method overrides the default POST method for a transition.
func (tb *TransitionBuilder[P, S]) Method(m string) *TransitionBuilder[P, S] {
	tb.transition.method = m
	return tb
}
