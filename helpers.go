package hxstate

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Sets Content-Type to text/html and renders the component using the
// request's context. Use this for non-component pages or when manually
// rendering component output.
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    hxstate.Render(w, r, myTemplate())
//	}
//
// Component renders don't need this - the registry auto-renders via the
// Renderer interface.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
//
// HTMX sends HX-Request: true on all requests. Use this to conditionally
// render partial content for HTMX vs a full page for direct browser
// requests.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// WireAttrs builds the minimal HTMX attributes for a component request.
//
// For GET, the wire values travel in the URL query string; for mutating
// methods they travel in hx-vals. All other HTMX attributes (hx-target,
// hx-swap, hx-trigger, etc.) are written directly by the user in their
// templates.
func WireAttrs(path, method string, vals map[string]string) templ.Attributes {
	attrs := templ.Attributes{}

	if method == http.MethodGet || method == "" {
		url := path
		sep := "?"
		for _, k := range []string{"p", "s", "h"} {
			if v, ok := vals[k]; ok && v != "" {
				url += sep + k + "=" + v
				sep = "&"
			}
		}
		attrs["hx-get"] = url
	} else {
		switch method {
		case http.MethodPost:
			attrs["hx-post"] = path
		case http.MethodPut:
			attrs["hx-put"] = path
		case http.MethodPatch:
			attrs["hx-patch"] = path
		case http.MethodDelete:
			attrs["hx-delete"] = path
		}
		if len(vals) > 0 {
			data, _ := json.Marshal(vals)
			attrs["hx-vals"] = string(data)
		}
	}

	return attrs
}

// wireVals encodes an instance's props, state, and host ref for the wire.
// Nil encoder (component not mounted yet) yields only the host ref.
func (d *Definition[P, S]) wireVals(inst *Instance[P, S]) map[string]string {
	vals := map[string]string{"h": inst.Host().String()}
	if d.encoder == nil {
		return vals
	}
	if p, err := d.encoder.Encode(inst.Props(), d.sensitive); err == nil {
		vals["p"] = p
	}
	if inst.Phase() != PhaseStateAbsent {
		if s, err := d.encoder.Encode(inst.State(), d.sensitive); err == nil {
			vals["s"] = s
		}
	}
	return vals
}

// RefreshAttrs returns HTMX attributes that re-render this instance: a GET
// against the component's render route carrying the instance's props,
// current state, and host ref, so the server resumes rather than
// cold-starts.
//
//	<div { c.RefreshAttrs(inst)... } hx-trigger="every 30s">
func (d *Definition[P, S]) RefreshAttrs(inst *Instance[P, S]) templ.Attributes {
	return WireAttrs(d.prefix+"/", http.MethodGet, d.wireVals(inst))
}

// TransitionAttrs returns HTMX attributes invoking a registered transition
// against this instance, carrying props, state, and host ref so the
// transition sees the resumed instance.
//
//	<button { c.TransitionAttrs("increment", inst)... }>+</button>
//
// Unregistered names fall back to POST; the registry rejects them at
// request time.
func (d *Definition[P, S]) TransitionAttrs(name string, inst *Instance[P, S]) templ.Attributes {
	method := http.MethodPost
	if def, ok := d.transitions[name]; ok {
		method = def.method
	}
	return WireAttrs(d.prefix+"/"+name, method, d.wireVals(inst))
}
