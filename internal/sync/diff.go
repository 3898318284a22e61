// Package sync reconciles a local env-file against the parameter store:
// load, diff, and a confirmation-gated apply.
package sync

// Change records a value that differs between store and file.
type Change struct {
	// Old is the value currently in the store.
	Old string
	// New is the local value that would replace it.
	New string
}

// Diff is the three-way classification of local keys against the remote
// store. The three maps partition the local key set; remote-only keys are
// not represented (the store is never pruned). Callers treat each map as
// a set: no ordering is guaranteed.
type Diff struct {
	Unchanged map[string]string
	New       map[string]string
	Changed   map[string]Change
}

// ComputeDiff classifies every local key against the remote map. A key
// present remotely with an identical value is unchanged; present with a
// different value is changed; absent remotely is new.
func ComputeDiff(local, remote map[string]string) Diff {
	d := Diff{
		Unchanged: make(map[string]string),
		New:       make(map[string]string),
		Changed:   make(map[string]Change),
	}

	for key, value := range local {
		remoteValue, ok := remote[key]
		switch {
		case !ok:
			d.New[key] = value
		case remoteValue == value:
			d.Unchanged[key] = value
		default:
			d.Changed[key] = Change{Old: remoteValue, New: value}
		}
	}

	return d
}

// Empty reports whether there is nothing to apply.
func (d Diff) Empty() bool {
	return len(d.New) == 0 && len(d.Changed) == 0
}

// applySet flattens the diff into the entries an apply would write:
// every new key plus every changed key at its new value.
func (d Diff) applySet() map[string]string {
	entries := make(map[string]string, len(d.New)+len(d.Changed))
	for key, value := range d.New {
		entries[key] = value
	}
	for key, change := range d.Changed {
		entries[key] = change.New
	}
	return entries
}
