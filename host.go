package hxstate

import "github.com/google/uuid"

// ElementRef is an opaque handle to the host element a component instance
// is bound to. The attachment mechanism owns the element; hxstate only
// stores the reference and uses it to correlate DOM position with component
// identity. Two refs are the same attachment point iff they compare equal.
type ElementRef string

// NewElementRef generates a fresh host element reference.
//
// The registry calls this when a request arrives without an existing host
// ref, so every cold-started instance gets a unique attachment identity
// without coordination.
func NewElementRef() ElementRef {
	return ElementRef("hxs-" + uuid.NewString())
}

// IsZero reports whether the ref is the empty, unbound value.
func (r ElementRef) IsZero() bool {
	return r == ""
}

func (r ElementRef) String() string {
	return string(r)
}
