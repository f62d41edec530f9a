package hxstate

import (
	"context"

	"github.com/a-h/templ"
)

// StateProducer is the cold-start extension point: it synthesizes an
// initial state record from props when construction received no recovered
// state.
//
// ResolveState must be a pure function of props (plus whatever external
// services the component consults) - it must not read the instance's state
// field, since that is precisely the value it is producing. The returned
// state must be plain, serializable data: it has to survive an
// encode/decode round trip and reconstruct to an equal value.
//
// ResolveState may block on external work (fetching sub-resources, etc.);
// the ctx it receives is the lifecycle's context. It is never called when
// state was recovered - recovered state always takes precedence and is
// never re-derived or merged.
//
// *Definition[P, S] provides the default, which fails with
// MissingStateProducerError. A component that can cold-start overrides it:
//
//	func (c *Counter) ResolveState(ctx context.Context, props Props) (State, error) {
//	    return State{Count: 0}, nil
//	}
type StateProducer[P, S any] interface {
	ResolveState(ctx context.Context, props P) (S, error)
}

// Initializer is the second lifecycle hook, invoked exactly once per
// instance after state is valid, regardless of whether state was recovered
// or freshly resolved.
//
// Init computes transient, non-serialized derived data. It may mutate
// state through the instance but must not mutate props; state mutations
// are persisted only if the host re-captures state afterward. Like
// ResolveState, Init may block on external work.
//
// *Definition[P, S] provides a no-op default.
type Initializer[P, S any] interface {
	Init(ctx context.Context, inst *Instance[P, S]) error
}

// ComponentType is the full contract a host needs to drive the hydration
// lifecycle for a component type without unsafe casts: its identity, its
// template locator, and both lifecycle hooks. The generic pair (P, S)
// exposes, at the type level, which props shape the type requires and
// which state shape it produces.
//
// Any type embedding *Definition[P, S] satisfies ComponentType[P, S]
// automatically; overriding ResolveState or Init on the outer type shadows
// the embedded default.
type ComponentType[P, S any] interface {
	Name() string
	TemplateLocator() TemplateRef
	StateProducer[P, S]
	Initializer[P, S]
}

// Renderer is implemented by components to produce templ output for a
// ready instance. The HTTP host calls it after the lifecycle completes,
// for both plain renders and transitions.
//
// Render should be pure: it reads the instance's props and state and
// produces HTML without side effects.
//
//	func (c *Counter) Render(ctx context.Context, inst *hxstate.Instance[Props, State]) templ.Component {
//	    return counterView(c, inst)
//	}
type Renderer[P, S any] interface {
	Render(ctx context.Context, inst *Instance[P, S]) templ.Component
}

// Injector is the boundary to an external dependency-resolution mechanism.
// When a lifecycle runs with WithInjector, the ready instance is handed to
// Inject after Init completes; hxstate never implements resolution itself.
type Injector interface {
	Inject(ctx context.Context, target any) error
}
