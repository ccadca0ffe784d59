//go:build windows
// +build windows

package cmdtoolenv

// DefaultShell if the shell flag is not set
const DefaultShell = ShellCmd
