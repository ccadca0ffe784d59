// Package activate computes the environment changes that make
// a Windows Kits SDK or an MSVC compiler toolchain usable.
//
// Activation is a pure function of params and the current environment,
// callers decide how to apply the result, e.g. with Env.Apply,
// ApplyProcess, or by rendering shell commands.
// Paths are not checked, see Validate for optional warnings.
package activate

import (
	"github.com/mozey/toolenv/pkg/share"
)

// Change to one environment variable
type Change struct {
	Name string
	// Prepend lists the segments put in front of Prev,
	// empty if the variable is replaced
	Prepend []string
	// Prev is the value read from the environment
	Prev string
	// Existed is set if the variable was in the environment,
	// an empty Prev does not imply the variable was unset
	Existed bool
	// Value is the new value
	Value string
	// Unset is set if the variable must be removed
	Unset bool
}

// Delta is the environment delta for one toolchain kind
type Delta struct {
	Kind    Kind
	Changes []Change
}

// Map of variable name to new value,
// unset variables map to an empty string
func (d *Delta) Map() map[string]string {
	m := make(map[string]string, len(d.Changes))
	for _, change := range d.Changes {
		m[change.Name] = change.Value
	}
	return m
}

// Change returns the change for name
func (d *Delta) Change(name string) (change Change, ok bool) {
	for _, change := range d.Changes {
		if change.Name == name {
			return change, true
		}
	}
	return change, false
}

// Names of changed variables, in order
func (d *Delta) Names() []string {
	names := make([]string, len(d.Changes))
	for i, change := range d.Changes {
		names[i] = change.Name
	}
	return names
}

// Activate computes the delta for kind.
// Path list variables are prepended to, never replaced,
// i.e. the previous value is always a suffix of the new value.
// Activating twice duplicates segments
func Activate(kind Kind, p Params, env Env) (d *Delta, err error) {
	t, err := getTable(kind)
	if err != nil {
		return d, err
	}
	vars, err := p.vars(t)
	if err != nil {
		return d, err
	}

	d = &Delta{
		Kind:    kind,
		Changes: make([]Change, 0, len(t.Vars)),
	}
	for _, vt := range t.Vars {
		change := Change{Name: vt.Name}
		_, change.Prev, change.Existed = env.Lookup(vt.Name)
		if len(vt.Segments) == 0 {
			change.Value, err = share.Substitute(vt.Value, vars)
			if err != nil {
				return d, err
			}
		} else {
			change.Prepend = make([]string, len(vt.Segments))
			for i, segment := range vt.Segments {
				change.Prepend[i], err = share.Substitute(segment, vars)
				if err != nil {
					return d, err
				}
			}
			change.Value = PrependList(change.Prepend, change.Prev, ListSeparator)
		}
		d.Changes = append(d.Changes, change)
	}

	return d, nil
}

// ActivateAll activates kinds in order, each kind sees the environment
// as changed by the kinds before it.
// Segments of the last kind are first in path lists
func ActivateAll(kinds []Kind, p Params, env Env) (
	deltas []*Delta, result Env, err error) {

	deltas = make([]*Delta, 0, len(kinds))
	result = env.Clone()
	for _, kind := range kinds {
		d, err := Activate(kind, p, result)
		if err != nil {
			return deltas, result, err
		}
		deltas = append(deltas, d)
		result = result.Apply(d)
	}
	return deltas, result, nil
}

// ChangedNames returns names changed by deltas,
// in order of first appearance and without repeats
func ChangedNames(deltas []*Delta) []string {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, d := range deltas {
		for _, name := range d.Names() {
			if seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
