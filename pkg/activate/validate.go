package activate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mozey/toolenv/pkg/share"
)

// WarningKind classifies validation warnings
type WarningKind string

const (
	MissingRoot       WarningKind = "MissingRoot"
	MissingVersionDir WarningKind = "MissingVersionDir"
)

// Warning about a path that does not exist.
// Warnings never stop activation
type Warning struct {
	Kind      WarningKind
	Toolchain Kind
	Path      string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s %s", w.Toolchain, w.Kind, w.Path)
}

// Validate checks that the root and version dirs for kind exist.
// If the root is missing the version dirs are not checked
func Validate(kind Kind, p Params, exists func(path string) bool) (
	warnings []Warning, err error) {

	warnings = make([]Warning, 0)
	t, err := getTable(kind)
	if err != nil {
		return warnings, err
	}
	vars, err := p.vars(t)
	if err != nil {
		return warnings, err
	}

	root := vars[SubRoot]
	if root == "" || !exists(root) {
		return append(warnings, Warning{
			Kind:      MissingRoot,
			Toolchain: kind,
			Path:      root,
		}), nil
	}

	for _, dir := range t.Dirs {
		dir, err = share.Substitute(dir, vars)
		if err != nil {
			return warnings, err
		}
		if !exists(dir) {
			warnings = append(warnings, Warning{
				Kind:      MissingVersionDir,
				Toolchain: kind,
				Path:      dir,
			})
		}
	}

	return warnings, nil
}

// HostExists reports whether the Windows style path exists on this host.
// Backslashes are converted to the host separator
func HostExists(path string) bool {
	p := filepath.FromSlash(strings.ReplaceAll(path, PathSeparator, "/"))
	_, err := os.Stat(p)
	return err == nil
}
