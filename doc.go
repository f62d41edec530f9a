// Package hxstate provides stateful, hydratable server components for Go,
// Templ, and HTMX.
//
// A component carries two kinds of data: props, the immutable inputs it was
// declared with, and state, a mutable record that survives serialization.
// When a component is rendered for the first time it resolves its initial
// state from props; on every later request the previously serialized state
// is recovered verbatim and the resolution step is skipped entirely. That
// is hydration: reconstructing a live instance from persisted state instead
// of recomputing it from scratch.
//
// # Core Concepts
//
// Components embed *Definition[P, S] where P is the props type and S is the
// state type. Both must be serializable plain data - no live references, no
// cycles.
//
//	type Counter struct {
//	    *hxstate.Definition[Props, State]
//	}
//
//	func NewCounter() *Counter {
//	    c := &Counter{
//	        Definition: hxstate.New[Props, State]("counter").Template("counter.templ"),
//	    }
//	    c.Transition("increment", c.increment)
//	    return c
//	}
//
// The lifecycle is formalized through two extension points:
//   - StateProducer[P, S]: ResolveState(ctx, P) synthesizes initial state
//     from props on a cold start. The Definition default fails with
//     MissingStateProducerError; concrete components override it.
//   - Initializer[P, S]: Init(ctx, *Instance[P, S]) computes transient,
//     non-serialized derived data once state is valid. The default is a
//     no-op.
//
// # The Hydration Lifecycle
//
// A host drives three ordered operations:
//
//	inst := hxstate.NewInstance(host, props, recovered) // bind fields
//	hxstate.Resolve(ctx, c, inst)                       // only if recovered was None
//	hxstate.Initialize(ctx, c, inst)                    // exactly once
//
// or lets Hydrate sequence them:
//
//	inst, err := hxstate.Hydrate(ctx, c, host, props, hxstate.None[State]())
//
// Recovered state always wins: when construction is given Some(state),
// ResolveState is never invoked and the recovered value is installed
// without copying, validation, or merging. Each instance moves through
// PhaseStateAbsent -> PhaseStateResolved -> PhaseReady; no transition is
// reversible and there is no re-entry into Resolve or Initialize.
//
// # Serialized State
//
// State travels between requests as a msgpack payload in one of two wire
// modes:
//   - Signed (default): HMAC-authenticated, visible but tamper-proof
//   - Encrypted: AES-GCM, opaque to clients (use .Sensitive())
//
// Any value placed in state must survive an encode/decode round trip and
// reconstruct to an equal value. Hydrate can enforce this eagerly for
// freshly produced state via WithStrictState.
//
// # Registration and Hosting
//
// Components are mounted on a Registry, which acts as the HTTP host: it
// decodes props and recovered state from the request, runs the lifecycle,
// renders via the Renderer interface, and re-encodes the instance's state
// into the response so the client carries it into the next request.
//
//	reg := hxstate.NewRegistry(secretKey)
//	hxstate.MustMount[Props, State](reg, NewCounter())
//	http.Handle("/_s/", reg.Handler())
//
// Mounting enforces the class-level invariants: a concrete component must
// declare a non-empty TemplateRef, and prefixes may not collide.
//
// # Transitions
//
// Transitions are named, state-mutating operations registered on a
// definition:
//
//	c.Transition("increment", c.increment)
//	c.Transition("reset", c.reset).Method(http.MethodDelete)
//
// A transition request runs the full hydration lifecycle first, so handlers
// always see a ready instance with valid state.
//
// # Design Rationale
//
// The system favors explicitness over magic:
//   - Explicit registration (no init() side effects)
//   - Explicit lifecycle (StateProducer/Initializer interfaces with typed
//     defaults, not reflective method lookup)
//   - Explicit absence (Option[S], not nil)
//   - Explicit security (Signed vs Encrypted via .Sensitive())
//
// Props and state types are linked at the type level through the generic
// pair on Definition, so a host can be generic over arbitrary component
// types and still type-check the props it passes in and the state it gets
// back, without unsafe casts.
package hxstate
