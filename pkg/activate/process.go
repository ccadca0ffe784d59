package activate

import (
	"os"
	"sync"

	"github.com/pkg/errors"
)

// processMu serializes changes to the process environment,
// concurrent prepends to the same variable could otherwise interleave
var processMu sync.Mutex

// ProcessEnv returns a snapshot of the process environment
func ProcessEnv() Env {
	return FromEnviron(os.Environ())
}

// ApplyProcess sets the delta on the process environment,
// child processes started afterwards inherit the changes
func ApplyProcess(d *Delta) error {
	processMu.Lock()
	defer processMu.Unlock()
	return applyProcess(d)
}

func applyProcess(d *Delta) error {
	for _, change := range d.Changes {
		if change.Unset {
			if err := os.Unsetenv(change.Name); err != nil {
				return errors.WithStack(err)
			}
			continue
		}
		if err := os.Setenv(change.Name, change.Value); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// ActivateProcess activates kinds on the process environment.
// Reading the environment and applying the deltas happens under one lock
func ActivateProcess(kinds []Kind, p Params) (deltas []*Delta, err error) {
	processMu.Lock()
	defer processMu.Unlock()

	deltas, _, err = ActivateAll(kinds, p, ProcessEnv())
	if err != nil {
		return deltas, err
	}
	for _, d := range deltas {
		if err := applyProcess(d); err != nil {
			return deltas, err
		}
	}
	return deltas, nil
}
