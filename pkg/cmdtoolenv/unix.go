//go:build !windows
// +build !windows

// OS Detection at compile time
// https://stackoverflow.com/a/19847868/639133
package cmdtoolenv

// DefaultShell if the shell flag is not set
const DefaultShell = ShellBash
