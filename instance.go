package hxstate

// Phase is the lifecycle position of an instance. Phases only ever move
// forward; there is no re-entry into an earlier phase for a live instance.
type Phase int

const (
	// PhaseStateAbsent: constructed without recovered state. The state
	// field holds an unusable zero sentinel until Resolve completes.
	PhaseStateAbsent Phase = iota
	// PhaseStateResolved: state is valid, either recovered at construction
	// or produced by Resolve. Only Initialize is legal from here.
	PhaseStateResolved
	// PhaseReady: Initialize has run. The instance is live and belongs to
	// the host (injection, rendering, transitions).
	PhaseReady
)

func (p Phase) String() string {
	switch p {
	case PhaseStateAbsent:
		return "state-absent"
	case PhaseStateResolved:
		return "state-resolved"
	case PhaseReady:
		return "ready"
	default:
		return "unknown"
	}
}

// Instance[P, S] is one hydrated occurrence of a component type, bound to a
// single host element. Exactly one host per instance; the pairing of host
// ref and component type is the instance's identity.
//
// Instances are created by NewInstance and driven to PhaseReady by the
// host (usually via Hydrate). They are not safe for concurrent use: the
// lifecycle model is single-instance, cooperatively scheduled, and a host
// must not run two lifecycle passes for the same instance.
type Instance[P, S any] struct {
	host      ElementRef
	props     P
	state     S
	transient any
	phase     Phase
}

// NewInstance constructs an instance, binding fields exactly as given.
//
// This is pure field assignment: no copying, no validation, no
// re-derivation, and it never fails for well-formed input. Validity of the
// host ref and the props shape are the caller's contract. If recovered is
// Some, the value becomes the instance's state immediately and the
// ResolveState step must be skipped; if None, the state field is a zero
// sentinel that no caller may treat as valid until Resolve completes.
func NewInstance[P, S any](host ElementRef, props P, recovered Option[S]) *Instance[P, S] {
	inst := &Instance[P, S]{
		host:  host,
		props: props,
	}
	if state, ok := recovered.Get(); ok {
		inst.state = state
		inst.phase = PhaseStateResolved
	}
	return inst
}

// Host returns the host element ref the instance is bound to. The host
// environment owns the element; the instance holds a non-owning back-link.
func (i *Instance[P, S]) Host() ElementRef {
	return i.host
}

// Props returns the immutable input record supplied at construction.
func (i *Instance[P, S]) Props() P {
	return i.props
}

// State returns the instance's state record.
//
// Before PhaseStateResolved the returned value is the zero sentinel and
// must not be used; check Phase (or drive the instance through Hydrate,
// which never yields an instance with unresolved state).
func (i *Instance[P, S]) State() S {
	return i.state
}

// SetState replaces the instance's state. Legal once state has been
// resolved; Init hooks and transition handlers use it to mutate state.
// The mutation is only persisted if the host re-captures state afterward.
//
// Panics in PhaseStateAbsent: installing initial state is Resolve's job,
// and writing around it would let an unresolved instance masquerade as
// valid.
func (i *Instance[P, S]) SetState(state S) {
	if i.phase == PhaseStateAbsent {
		panic("hxstate: SetState before state resolution")
	}
	i.state = state
}

// SetTransient stashes derived, non-serialized data on the instance.
// Typically set by Init: transient data never travels with state, so it is
// recomputed on every hydration.
func (i *Instance[P, S]) SetTransient(v any) {
	i.transient = v
}

// Transient returns the derived data set by SetTransient, or nil.
func (i *Instance[P, S]) Transient() any {
	return i.transient
}

// Phase returns the instance's current lifecycle phase.
func (i *Instance[P, S]) Phase() Phase {
	return i.phase
}

// resolve installs freshly produced state. Driver-only; guarded by
// Resolve.
func (i *Instance[P, S]) resolve(state S) {
	i.state = state
	i.phase = PhaseStateResolved
}

// markReady records that Init has run. Driver-only; guarded by Initialize.
func (i *Instance[P, S]) markReady() {
	i.phase = PhaseReady
}
