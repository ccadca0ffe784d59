package cmdtoolenv

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/mozey/toolenv/pkg/activate"
)

// HookFilePrefix for hook file names, e.g. vs_buildtools-msvc.bat
const HookFilePrefix = "vs_buildtools"

// HookName returns the hook file name part for kind
func HookName(kind activate.Kind) string {
	if kind == activate.KindCompiler {
		return "msvc"
	}
	return string(kind)
}

// HookDirs returns the conda activation and deactivation hook dirs
func HookDirs(prefix string) (activateDir, deactivateDir string) {
	base := filepath.Join(prefix, "etc", "conda")
	return filepath.Join(base, "activate.d"), filepath.Join(base, "deactivate.d")
}

// hookFiles renders activation and deactivation hooks for each kind.
// Hooks only depend on params, the environment is read when they run
func hookFiles(s *Shell, prefix string, kinds []activate.Kind, p activate.Params) (
	files Files, deltas []*activate.Delta, err error) {

	activateDir, deactivateDir := HookDirs(prefix)
	files = make(Files, 0, 2*len(kinds))
	deltas = make([]*activate.Delta, 0, len(kinds))

	for _, kind := range kinds {
		d, err := activate.Activate(kind, p, activate.Env{})
		if err != nil {
			return files, deltas, err
		}
		deltas = append(deltas, d)
		fileName := fmt.Sprintf("%s-%s%s", HookFilePrefix, HookName(kind), s.Ext)

		body := new(bytes.Buffer)
		s.Hook(body, d)
		files = append(files, File{
			Path: filepath.Join(activateDir, fileName),
			Buf:  s.Script(body),
		})

		body = new(bytes.Buffer)
		s.DeactivateHook(body, d)
		files = append(files, File{
			Path: filepath.Join(deactivateDir, fileName),
			Buf:  s.Script(body),
		})
	}

	return files, deltas, nil
}
