// Package counter is a minimal hxstate component: a counter whose state is
// a single integer that survives serialization across requests.
package counter

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/pthm/hxstate"
)

// Props are the counter's immutable inputs. Step is the default amount a
// transition moves the count by.
type Props struct {
	Step int `msgpack:"step"`
}

// State is the counter's persisted record.
type State struct {
	Count int `msgpack:"count"`
}

// Counter is a stateful component. Cold starts resolve to a zero count;
// resumed instances keep whatever count the client carried back.
type Counter struct {
	*hxstate.Definition[Props, State]
}

// New creates the counter definition with its transitions registered.
func New() *Counter {
	c := &Counter{
		Definition: hxstate.New[Props, State]("counter").Template("counter.templ"),
	}
	c.Transition("increment", c.increment)
	c.Transition("decrement", c.decrement)
	return c
}

// ResolveState produces the initial state on a cold start.
func (c *Counter) ResolveState(ctx context.Context, props Props) (State, error) {
	return State{Count: 0}, nil
}

// Init derives the parity label, which is transient and recomputed on
// every hydration rather than serialized with state.
func (c *Counter) Init(ctx context.Context, inst *hxstate.Instance[Props, State]) error {
	inst.SetTransient(parity(inst.State().Count))
	return nil
}

func (c *Counter) increment(ctx context.Context, inst *hxstate.Instance[Props, State], r *http.Request) error {
	return c.move(inst, r, 1)
}

func (c *Counter) decrement(ctx context.Context, inst *hxstate.Instance[Props, State], r *http.Request) error {
	return c.move(inst, r, -1)
}

func (c *Counter) move(inst *hxstate.Instance[Props, State], r *http.Request, direction int) error {
	step := inst.Props().Step
	if step == 0 {
		step = 1
	}
	if v := r.FormValue("step"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("counter: bad step %q: %w", v, err)
		}
		step = n
	}

	state := inst.State()
	state.Count += direction * step
	inst.SetState(state)
	inst.SetTransient(parity(state.Count))
	return nil
}

// Render produces the counter's markup. Buttons carry the encoded props,
// state, and host ref so the server resumes this exact instance.
func (c *Counter) Render(ctx context.Context, inst *hxstate.Instance[Props, State]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<div id="%s" class="counter" hx-target="this" hx-swap="outerHTML">`,
			html.EscapeString(inst.Host().String())); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `<span class="count">%d (%s)</span>`,
			inst.State().Count, inst.Transient()); err != nil {
			return err
		}
		if err := writeButton(w, "-", c.TransitionAttrs("decrement", inst)); err != nil {
			return err
		}
		if err := writeButton(w, "+", c.TransitionAttrs("increment", inst)); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func writeButton(w io.Writer, label string, attrs templ.Attributes) error {
	if _, err := io.WriteString(w, `<button`); err != nil {
		return err
	}
	for k, v := range attrs {
		s, ok := v.(string)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, k, html.EscapeString(s)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, `>%s</button>`, html.EscapeString(label))
	return err
}

func parity(n int) string {
	if n%2 == 0 {
		return "even"
	}
	return "odd"
}
