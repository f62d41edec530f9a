package hxstate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// HydrateOption configures a single Hydrate run.
type HydrateOption func(*hydrateConfig)

type hydrateConfig struct {
	strict   *Encoder
	injector Injector
	log      zerolog.Logger
}

// WithStrictState makes Hydrate validate freshly produced state eagerly:
// after ResolveState returns, the value is pushed through an encode/decode
// round trip with enc and must reconstruct to a deep-equal value, otherwise
// the lifecycle fails with ErrStateNotSerializable before Init runs.
//
// Recovered state is never re-validated - it already survived a decode.
// Without this option the serializability invariant is trusted, not
// checked; see the package documentation.
func WithStrictState(enc *Encoder) HydrateOption {
	return func(c *hydrateConfig) {
		c.strict = enc
	}
}

// WithInjector hands the ready instance to an external dependency-resolution
// mechanism after Init completes. An Inject failure fails the lifecycle.
func WithInjector(inj Injector) HydrateOption {
	return func(c *hydrateConfig) {
		c.injector = inj
	}
}

// WithLogger attaches a logger to the lifecycle run. The default discards
// everything.
func WithLogger(log zerolog.Logger) HydrateOption {
	return func(c *hydrateConfig) {
		c.log = log
	}
}

// Resolve runs the state-resolution step on an instance constructed without
// recovered state.
//
// It calls c.ResolveState with the instance's props and installs the result
// as the instance's state. Only legal in PhaseStateAbsent: resolving an
// instance whose state is already valid (recovered, or resolved earlier)
// returns ErrStateAlreadyResolved and changes nothing - recovered state is
// never overwritten or merged.
//
// A ResolveState failure leaves the instance in PhaseStateAbsent; the error
// propagates unchanged and the host must discard the instance.
func Resolve[P, S any](ctx context.Context, c ComponentType[P, S], inst *Instance[P, S]) error {
	if inst.Phase() != PhaseStateAbsent {
		return fmt.Errorf("%w: component %q in phase %s", ErrStateAlreadyResolved, c.Name(), inst.Phase())
	}
	state, err := c.ResolveState(ctx, inst.Props())
	if err != nil {
		return err
	}
	inst.resolve(state)
	return nil
}

// Initialize runs the Init hook on an instance with valid state.
//
// Only legal in PhaseStateResolved: initializing before state is valid
// returns ErrStateNotResolved, and a second call on a live instance
// returns ErrAlreadyInitialized. On success the instance enters PhaseReady.
//
// An Init failure leaves the instance in PhaseStateResolved but the host
// must treat the instance as unusable and discard it; there is no retry.
func Initialize[P, S any](ctx context.Context, c ComponentType[P, S], inst *Instance[P, S]) error {
	switch inst.Phase() {
	case PhaseStateAbsent:
		return fmt.Errorf("%w: component %q", ErrStateNotResolved, c.Name())
	case PhaseReady:
		return fmt.Errorf("%w: component %q", ErrAlreadyInitialized, c.Name())
	}
	if err := c.Init(ctx, inst); err != nil {
		return err
	}
	inst.markReady()
	return nil
}

// Hydrate drives the full lifecycle for one instance of component type c:
// construct with (host, props, recovered), resolve state iff none was
// recovered, initialize exactly once, then optionally hand the ready
// instance to an Injector.
//
//	// Cold start: ResolveState produces the initial state.
//	inst, err := hxstate.Hydrate(ctx, c, host, props, hxstate.None[State]())
//
//	// Resume: recovered state is installed verbatim, ResolveState skipped.
//	inst, err := hxstate.Hydrate(ctx, c, host, props, hxstate.Some(saved))
//
// The context is honored between steps; if it is cancelled mid-flight the
// in-progress instance is abandoned. On any error Hydrate returns a nil
// instance: a partially hydrated instance is never usable and must not be
// retried.
func Hydrate[P, S any](ctx context.Context, c ComponentType[P, S], host ElementRef, props P, recovered Option[S], opts ...HydrateOption) (*Instance[P, S], error) {
	cfg := hydrateConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	cold := recovered.IsNone()
	inst := NewInstance(host, props, recovered)
	cfg.log.Debug().
		Str("component", c.Name()).
		Str("host", host.String()).
		Bool("cold", cold).
		Msg("hydrating")

	if cold {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := Resolve(ctx, c, inst); err != nil {
			cfg.log.Error().Err(err).Str("component", c.Name()).Msg("state resolution failed")
			return nil, err
		}
		if cfg.strict != nil {
			if err := cfg.strict.RoundTrip(inst.State()); err != nil {
				return nil, fmt.Errorf("%w: component %q: %v", ErrStateNotSerializable, c.Name(), err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := Initialize(ctx, c, inst); err != nil {
		cfg.log.Error().Err(err).Str("component", c.Name()).Msg("init failed")
		return nil, err
	}

	if cfg.injector != nil {
		if err := cfg.injector.Inject(ctx, inst); err != nil {
			cfg.log.Error().Err(err).Str("component", c.Name()).Msg("injection failed")
			return nil, err
		}
	}

	return inst, nil
}
