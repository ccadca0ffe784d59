package activate

import (
	"fmt"
	"sort"
	"strings"
)

// Env maps environment variable names to values.
// Names are matched case-insensitively if there is no exact match,
// Windows allows e.g. "Path" instead of "PATH"
type Env map[string]string

// FromEnviron creates Env from "key=value" strings, e.g. os.Environ().
// cmd.exe sets dynamic variables with names starting with "=",
// and those are skipped
func FromEnviron(environ []string) Env {
	env := make(Env, len(environ))
	for _, kv := range environ {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// Lookup returns the key as it is spelled in env, and the value
func (env Env) Lookup(name string) (key string, value string, ok bool) {
	if value, ok = env[name]; ok {
		return name, value, true
	}
	// Lowest key wins if there is more than one match
	for k, v := range env {
		if strings.EqualFold(k, name) {
			if !ok || k < key {
				key, value, ok = k, v, true
			}
		}
	}
	return key, value, ok
}

// Get returns the value for name, or an empty string
func (env Env) Get(name string) string {
	_, value, _ := env.Lookup(name)
	return value
}

// Set value for name, keeping the spelling of an existing key
func (env Env) Set(name, value string) {
	if key, _, ok := env.Lookup(name); ok {
		name = key
	}
	env[name] = value
}

// Unset removes name, and all keys matching it case-insensitively
func (env Env) Unset(name string) {
	for k := range env {
		if strings.EqualFold(k, name) {
			delete(env, k)
		}
	}
}

func (env Env) Clone() Env {
	c := make(Env, len(env))
	for k, v := range env {
		c[k] = v
	}
	return c
}

// Apply returns a copy of env with the delta applied
func (env Env) Apply(d *Delta) Env {
	c := env.Clone()
	for _, change := range d.Changes {
		if change.Unset {
			c.Unset(change.Name)
			continue
		}
		c.Set(change.Name, change.Value)
	}
	return c
}

// Environ returns sorted "key=value" strings
func (env Env) Environ() []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	environ := make([]string, len(keys))
	for i, k := range keys {
		environ[i] = fmt.Sprintf("%s=%s", k, env[k])
	}
	return environ
}

// PrependList puts segments in front of the list value.
// An empty value does not leave a trailing separator
func PrependList(segments []string, value, sep string) string {
	joined := strings.Join(segments, sep)
	if value == "" {
		return joined
	}
	if joined == "" {
		return value
	}
	return joined + sep + value
}

// RemoveList removes the first entry matching each segment from the list value.
// All other entries, and their order, are kept
func RemoveList(segments []string, value, sep string) string {
	if value == "" {
		return value
	}
	entries := strings.Split(value, sep)
	for _, segment := range segments {
		for i, entry := range entries {
			if entry == segment {
				entries = append(entries[:i], entries[i+1:]...)
				break
			}
		}
	}
	return strings.Join(entries, sep)
}
