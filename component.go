package hxstate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"runtime"
)

// TemplateRef is the opaque, class-level locator for the external template
// a component type is rendered by. hxstate stores and exposes it so hosts
// can correlate an instance with the DOM its template produces; resolving
// the ref into renderable content is an external concern.
type TemplateRef string

// IsZero reports whether the ref was never declared.
func (t TemplateRef) IsZero() bool {
	return t == ""
}

func (t TemplateRef) String() string {
	return string(t)
}

// Definition[P, S] is the class-level base type embedded by user
// components. P is the props type and S is the state type; the pair fixes,
// per concrete component type, what shape of props the lifecycle accepts
// and what shape of state it produces.
//
// Components embed *Definition[P, S] to gain the default lifecycle hooks,
// transition registration, and state-carrying attribute builders. The
// embedding pattern promotes methods directly onto the user's component
// type, and a concrete type overrides ResolveState (and optionally Init)
// to supply its own behavior.
//
// Example:
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
// Each definition receives a deterministic URL prefix based on its name and
// source location (file:line), ensuring uniqueness without manual
// coordination.
type Definition[P, S any] struct {
	name        string
	prefix      string
	template    TemplateRef
	sensitive   bool
	transitions map[string]*transitionDef[P, S]
	encoder     *Encoder
}

// New creates a new definition with the given name.
//
// Concrete, mountable component types must also declare their template via
// .Template(); a definition with an empty TemplateRef is treated as
// abstract and may not be mounted. By default, serialized state is signed
// (visible in transit but tamper-proof via HMAC); call .Sensitive() to
// encrypt it instead.
//
// The URL prefix is derived from the name and the source location where New
// is called, so different definitions get unique routes even when they
// share a name.
func New[P, S any](name string) *Definition[P, S] {
	prefix := "/_s/" + name + "-" + definitionHash(name, 1)
	return &Definition[P, S]{
		name:        name,
		prefix:      prefix,
		transitions: make(map[string]*transitionDef[P, S]),
	}
}

// Template declares the template locator for this component type.
// Required for any definition that is mounted; see MustMount.
func (d *Definition[P, S]) Template(ref TemplateRef) *Definition[P, S] {
	d.template = ref
	return d
}

// Sensitive marks the component's serialized data as sensitive, enabling
// full encryption for props and state on the wire.
//
// Signed mode (default) is debuggable - payloads are visible as base64
// msgpack. Encrypted mode makes them completely opaque. Use it when state
// contains user IDs, financial figures, or anything clients must not read.
func (d *Definition[P, S]) Sensitive() *Definition[P, S] {
	d.sensitive = true
	return d
}

// Name returns the component's name.
func (d *Definition[P, S]) Name() string {
	return d.name
}

// Prefix returns the component's URL prefix.
// All transitions for this component are mounted under this prefix.
func (d *Definition[P, S]) Prefix() string {
	return d.prefix
}

// TemplateLocator returns the declared template ref. Zero for an abstract
// definition that never called Template.
func (d *Definition[P, S]) TemplateLocator() TemplateRef {
	return d.template
}

// IsSensitive returns whether the component encrypts its wire payloads.
func (d *Definition[P, S]) IsSensitive() bool {
	return d.sensitive
}

// ResolveState is the default state producer: it always fails.
//
// The base definition makes no assumption about what an empty state should
// be, so a component that can cold-start must override this method. The
// returned error identifies the concrete component and carries the props
// that triggered the cold start; it unwraps to ErrMissingStateProducer.
func (d *Definition[P, S]) ResolveState(ctx context.Context, props P) (S, error) {
	var zero S
	return zero, &MissingStateProducerError{Component: d.name, Props: props}
}

// Init is the default initializer: a no-op.
//
// Override it to compute transient, derived data once state is guaranteed
// valid. Init may mutate state through the instance, but mutations are only
// persisted if the host re-captures state afterward.
func (d *Definition[P, S]) Init(ctx context.Context, inst *Instance[P, S]) error {
	return nil
}

// SetEncoder sets the wire encoder for this definition (called by the
// registry at mount time).
func (d *Definition[P, S]) SetEncoder(enc *Encoder) {
	d.encoder = enc
}

// Encoder returns the wire encoder, or nil before mounting.
func (d *Definition[P, S]) Encoder() *Encoder {
	return d.encoder
}

// definitionHash generates a deterministic hash based on definition name and
// source location, so each definition gets a unique prefix without manual
// coordination.
func definitionHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		// Use base filename only for portability across environments
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4]) // 8 hex chars
}
