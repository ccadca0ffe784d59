package activate

// Deactivate computes the delta that removes the segments
// Activate adds for the same kind and params.
// The first entry matching each segment is removed, so entries added
// by other activations are kept. Replaced variables are unset,
// and so are lists left empty. Use Revert to restore variables
// that were set to an empty value before activation
func Deactivate(kind Kind, p Params, env Env) (d *Delta, err error) {
	a, err := Activate(kind, p, Env{})
	if err != nil {
		return d, err
	}
	// Activated on an empty env, so nothing is recorded as existing
	return Revert(a, env), nil
}

// DeactivateAll deactivates kinds in reverse order
func DeactivateAll(kinds []Kind, p Params, env Env) (
	deltas []*Delta, result Env, err error) {

	deltas = make([]*Delta, 0, len(kinds))
	result = env.Clone()
	for i := len(kinds) - 1; i >= 0; i-- {
		d, err := Deactivate(kinds[i], p, result)
		if err != nil {
			return deltas, result, err
		}
		deltas = append(deltas, d)
		result = result.Apply(d)
	}
	return deltas, result, nil
}

// Revert computes the delta that undoes the recorded activation a.
// Segments are removed as with Deactivate. Variables that existed
// before activation are kept, replaced variables get their previous value
func Revert(a *Delta, env Env) (d *Delta) {
	d = &Delta{
		Kind:    a.Kind,
		Changes: make([]Change, 0, len(a.Changes)),
	}
	for _, ac := range a.Changes {
		change := Change{Name: ac.Name}
		_, change.Prev, change.Existed = env.Lookup(ac.Name)
		if len(ac.Prepend) == 0 {
			change.Value = ac.Prev
		} else {
			change.Value = RemoveList(ac.Prepend, change.Prev, ListSeparator)
		}
		change.Unset = change.Value == "" && !ac.Existed
		d.Changes = append(d.Changes, change)
	}
	return d
}

// RevertAll reverts recorded activations in reverse order
func RevertAll(deltas []*Delta, env Env) (reverted []*Delta, result Env) {
	reverted = make([]*Delta, 0, len(deltas))
	result = env.Clone()
	for i := len(deltas) - 1; i >= 0; i-- {
		d := Revert(deltas[i], result)
		reverted = append(reverted, d)
		result = result.Apply(d)
	}
	return reverted, result
}
