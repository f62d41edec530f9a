package hxstate

import (
	"context"
	"sort"
	"strings"
	"testing"
)

func TestNewDefinition(t *testing.T) {
	d := New[testProps, testState]("widget")

	if d.Name() != "widget" {
		t.Errorf("Name() = %q, want %q", d.Name(), "widget")
	}
	if !strings.HasPrefix(d.Prefix(), "/_s/widget-") {
		t.Errorf("Prefix() = %q, want /_s/widget-<hash>", d.Prefix())
	}
	if !d.TemplateLocator().IsZero() {
		t.Error("a fresh definition should be abstract (no template)")
	}
	if d.IsSensitive() {
		t.Error("definitions should default to signed mode")
	}
}

func TestDefinitionPrefixUniqueness(t *testing.T) {
	// Same name, different source locations: prefixes must differ.
	a := New[testProps, testState]("dup")
	b := New[testProps, testState]("dup")

	if a.Prefix() == b.Prefix() {
		t.Errorf("definitions at different call sites share prefix %q", a.Prefix())
	}
}

func TestDefinitionBuilders(t *testing.T) {
	d := New[testProps, testState]("built").
		Template("built.templ").
		Sensitive()

	if d.TemplateLocator() != "built.templ" {
		t.Errorf("TemplateLocator() = %q, want %q", d.TemplateLocator(), "built.templ")
	}
	if !d.IsSensitive() {
		t.Error("Sensitive() should mark the definition")
	}
}

func TestTransitionRegistration(t *testing.T) {
	d := New[testProps, testState]("trans")

	d.Transition("increment", nil)
	d.Transition("reset", nil).Method("DELETE")

	names := d.Transitions()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "increment" || names[1] != "reset" {
		t.Errorf("Transitions() = %v, want [increment reset]", names)
	}
	if d.transitions["increment"].method != "POST" {
		t.Errorf("default method = %q, want POST", d.transitions["increment"].method)
	}
	if d.transitions["reset"].method != "DELETE" {
		t.Errorf("overridden method = %q, want DELETE", d.transitions["reset"].method)
	}
}

func TestDefaultInitIsNoop(t *testing.T) {
	d := New[testProps, testState]("noop")
	inst := NewInstance(NewElementRef(), testProps{}, Some(testState{Count: 5}))

	if err := d.Init(context.Background(), inst); err != nil {
		t.Errorf("default Init returned %v, want nil", err)
	}
	if inst.State().Count != 5 {
		t.Error("default Init must not touch state")
	}
}
