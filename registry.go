package hxstate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Mountable combines everything the registry needs to host a component
// type: the lifecycle contract, the renderer, and the class-level routing
// metadata. Any type that embeds *Definition[P, S] and implements
// Renderer[P, S] satisfies it.
type Mountable[P, S any] interface {
	ComponentType[P, S]
	Renderer[P, S]
	Prefix() string
	IsSensitive() bool
	SetEncoder(enc *Encoder)
	transitionTable() map[string]*transitionDef[P, S]
}

// Registry manages component registration and acts as the HTTP host that
// drives the hydration lifecycle: per request it decodes props and
// recovered state, hydrates an instance, applies a transition when one was
// addressed, renders, and re-encodes the instance's state into the
// response.
type Registry struct {
	mu      sync.RWMutex
	mux     *http.ServeMux
	encoder *Encoder
	mounts  map[string]string // map[prefix]component name

	// Log receives lifecycle and request diagnostics. Defaults to a no-op
	// logger; replace it before mounting components.
	Log zerolog.Logger

	// Injector, when set, receives every ready instance after Init.
	Injector Injector

	// Strict enables eager serializability validation of freshly resolved
	// state (see WithStrictState). Off by default.
	Strict bool

	// OnError is called when a lifecycle, transition, or render step fails.
	// Customize this to handle errors appropriately for your application.
	OnError func(http.ResponseWriter, *http.Request, error)
}

// StateHeader is the response header carrying the re-encoded state of the
// rendered instance, so the client side can persist it for the next
// request.
const StateHeader = "HXS-State"

// HostHeader is the response header carrying the host element ref the
// instance was bound to.
const HostHeader = "HXS-Host"

// NewRegistry creates a new component registry with the given encryption key.
func NewRegistry(key []byte) *Registry {
	enc, err := NewEncoder(key)
	if err != nil {
		panic(fmt.Sprintf("hxstate: failed to create encoder: %v", err))
	}

	reg := &Registry{
		mux:     http.NewServeMux(),
		encoder: enc,
		mounts:  make(map[string]string),
		Log:     zerolog.Nop(),
	}

	// Default error handler
	reg.OnError = func(w http.ResponseWriter, r *http.Request, err error) {
		switch {
		case errors.Is(err, ErrTransitionNotFound):
			http.Error(w, "Not found", http.StatusNotFound)
		case errors.Is(err, ErrMethodNotAllowed):
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		case IsDecryptionError(err) || errors.Is(err, ErrInvalidFormat):
			http.Error(w, "Bad request", http.StatusBadRequest)
		default:
			http.Error(w, "Internal error", http.StatusInternalServerError)
		}
	}

	return reg
}

// Encoder returns the registry's encoder (used by components).
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Mounts returns the prefixes of all mounted components, keyed to their
// names.
func (reg *Registry) Mounts() map[string]string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make(map[string]string, len(reg.mounts))
	for prefix, name := range reg.mounts {
		out[prefix] = name
	}
	return out
}

// Mount registers a component type with the registry and wires its routes.
//
// Mounting enforces the class-level invariants: the component must declare
// a non-empty template locator (a definition without one is abstract and
// not instantiable), and its prefix must not collide with an earlier
// mount.
func Mount[P, S any](reg *Registry, comp Mountable[P, S]) error {
	if comp.TemplateLocator().IsZero() {
		return fmt.Errorf("%w: component %q", ErrNoTemplate, comp.Name())
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	prefix := comp.Prefix()
	if existing, ok := reg.mounts[prefix]; ok {
		return fmt.Errorf("hxstate: prefix collision for %q between %q and %q", prefix, existing, comp.Name())
	}
	reg.mounts[prefix] = comp.Name()
	comp.SetEncoder(reg.encoder)

	reg.mux.HandleFunc(prefix+"/", func(w http.ResponseWriter, r *http.Request) {
		serveComponent(reg, comp, w, r)
	})

	reg.Log.Debug().
		Str("component", comp.Name()).
		Str("prefix", prefix).
		Str("template", comp.TemplateLocator().String()).
		Bool("sensitive", comp.IsSensitive()).
		Msg("mounted component")
	return nil
}

// MustMount is Mount, panicking on invariant violations. Mounting happens
// at startup with programmer-controlled inputs, so failures are defects.
func MustMount[P, S any](reg *Registry, comp Mountable[P, S]) {
	if err := Mount(reg, comp); err != nil {
		panic(err.Error())
	}
}

// serveComponent handles one request for a mounted component: decode,
// hydrate, optionally apply a transition, render, and re-capture state.
func serveComponent[P, S any](reg *Registry, comp Mountable[P, S], w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Path after the prefix selects a transition; bare prefix is a render.
	transition := strings.Trim(strings.TrimPrefix(r.URL.Path, comp.Prefix()), "/")

	var props P
	if encoded := r.FormValue("p"); encoded != "" {
		if err := wrapEncodingError(reg.encoder.Decode(encoded, comp.IsSensitive(), &props)); err != nil {
			reg.OnError(w, r, err)
			return
		}
	}

	recovered := None[S]()
	if encoded := r.FormValue("s"); encoded != "" {
		var state S
		if err := wrapEncodingError(reg.encoder.Decode(encoded, comp.IsSensitive(), &state)); err != nil {
			reg.OnError(w, r, err)
			return
		}
		recovered = Some(state)
	}

	host := ElementRef(r.FormValue("h"))
	if host.IsZero() {
		host = NewElementRef()
	}

	opts := []HydrateOption{WithLogger(reg.Log)}
	if reg.Injector != nil {
		opts = append(opts, WithInjector(reg.Injector))
	}
	if reg.Strict {
		opts = append(opts, WithStrictState(reg.encoder))
	}

	inst, err := Hydrate(ctx, comp, host, props, recovered, opts...)
	if err != nil {
		reg.Log.Error().Err(err).Str("component", comp.Name()).Msg("hydration failed")
		reg.OnError(w, r, err)
		return
	}

	if transition != "" {
		def, ok := comp.transitionTable()[transition]
		if !ok {
			reg.OnError(w, r, fmt.Errorf("%w: %q on component %q", ErrTransitionNotFound, transition, comp.Name()))
			return
		}
		if def.method != r.Method {
			reg.OnError(w, r, fmt.Errorf("%w: transition %q wants %s", ErrMethodNotAllowed, transition, def.method))
			return
		}
		if err := def.apply(ctx, inst, r); err != nil {
			reg.Log.Error().Err(err).
				Str("component", comp.Name()).
				Str("transition", transition).
				Msg("transition failed")
			reg.OnError(w, r, err)
			return
		}
	}

	// Re-capture: the response carries the instance's (possibly mutated)
	// state so the client brings it back on the next request.
	encoded, err := reg.encoder.Encode(inst.State(), comp.IsSensitive())
	if err != nil {
		reg.OnError(w, r, err)
		return
	}
	w.Header().Set(StateHeader, encoded)
	w.Header().Set(HostHeader, inst.Host().String())

	if err := Render(w, r, comp.Render(ctx, inst)); err != nil {
		reg.Log.Error().Err(err).Str("component", comp.Name()).Msg("render failed")
	}
}

// Handler returns the HTTP handler for component routes.
// Mount this at "/_s/" in your application.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if r.Header.Get("HX-Request") != "true" {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}

		reg.mux.ServeHTTP(w, r)
	})
}
