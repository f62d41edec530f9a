package hxstate

// Option[S] is an explicit present/absent container for recovered state.
//
// Construction takes an Option rather than a nilable pointer so the
// "no prior state" case is a distinct, exhaustively checkable value
// instead of an overloaded nil:
//
//	hxstate.Hydrate(ctx, c, host, props, hxstate.None[State]())  // cold start
//	hxstate.Hydrate(ctx, c, host, props, hxstate.Some(saved))    // resume
//
// The zero value of Option[S] is None.
type Option[S any] struct {
	value   S
	present bool
}

// Some wraps a recovered state value.
func Some[S any](value S) Option[S] {
	return Option[S]{value: value, present: true}
}

// None marks state as absent, forcing the ResolveState step.
func None[S any]() Option[S] {
	return Option[S]{}
}

// IsSome reports whether a value is present.
func (o Option[S]) IsSome() bool {
	return o.present
}

// IsNone reports whether the option is absent.
func (o Option[S]) IsNone() bool {
	return !o.present
}

// Get returns the contained value and whether it was present.
// When absent, the returned value is the zero value of S.
func (o Option[S]) Get() (S, bool) {
	return o.value, o.present
}

// OrElse returns the contained value, or fallback when absent.
func (o Option[S]) OrElse(fallback S) S {
	if o.present {
		return o.value
	}
	return fallback
}
