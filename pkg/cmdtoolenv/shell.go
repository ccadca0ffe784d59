package cmdtoolenv

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/pkg/errors"
)

const (
	ShellCmd        = "cmd"
	ShellBash       = "bash"
	ShellPowerShell = "powershell"
)

// Shell formats for one shell family
type Shell struct {
	Name string
	// Ext of script files, e.g. ".bat"
	Ext           string
	LineBreak     string
	Header        string
	ExportFormat  string
	UnsetFormat   string
	PrependFormat string
	RemoveFormat  string
	// Quote a value for use with ExportFormat
	Quote func(s string) string
	// Escape a segment for use with PrependFormat and RemoveFormat
	Escape func(s string) string
}

var shells = map[string]*Shell{
	ShellCmd: {
		Name:          ShellCmd,
		Ext:           ".bat",
		LineBreak:     CmdLineBreak,
		Header:        CmdHeader,
		ExportFormat:  CmdExportFormat,
		UnsetFormat:   CmdUnsetFormat,
		PrependFormat: CmdPrependFormat,
		RemoveFormat:  CmdRemoveFormat,
		Quote:         cmdEscape,
		Escape:        cmdEscape,
	},
	ShellBash: {
		Name:          ShellBash,
		Ext:           ".sh",
		LineBreak:     BashLineBreak,
		Header:        BashHeader,
		ExportFormat:  BashExportFormat,
		UnsetFormat:   BashUnsetFormat,
		PrependFormat: BashPrependFormat,
		RemoveFormat:  BashRemoveFormat,
		Quote:         shQuote,
		Escape:        dqEscape,
	},
	ShellPowerShell: {
		Name:          ShellPowerShell,
		Ext:           ".ps1",
		LineBreak:     PowerShellLineBreak,
		Header:        PowerShellHeader,
		ExportFormat:  PowerShellExportFormat,
		UnsetFormat:   PowerShellUnsetFormat,
		PrependFormat: PowerShellPrependFormat,
		RemoveFormat:  PowerShellRemoveFormat,
		Quote:         psQuote,
		Escape:        psEscape,
	},
}

// GetShell by name, "sh" and "bat" are aliases
func GetShell(name string) (*Shell, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sh", ShellBash:
		return shells[ShellBash], nil
	case "bat", ShellCmd:
		return shells[ShellCmd], nil
	case "ps1", "pwsh", ShellPowerShell:
		return shells[ShellPowerShell], nil
	}
	return nil, errors.Wrapf(ErrUnknownShell, "%q", name)
}

func (s *Shell) line(buf *bytes.Buffer, format string, a ...interface{}) {
	buf.WriteString(fmt.Sprintf(format, a...))
	buf.WriteString(s.LineBreak)
}

// Export writes the command to set name to value
func (s *Shell) Export(buf *bytes.Buffer, name, value string) {
	s.line(buf, s.ExportFormat, name, s.Quote(value))
}

// Unset writes the command to remove name
func (s *Shell) Unset(buf *bytes.Buffer, name string) {
	s.line(buf, s.UnsetFormat, name)
}

// ExportEnv writes commands setting the final values of names in env,
// names not in env are unset
func (s *Shell) ExportEnv(buf *bytes.Buffer, names []string, env activate.Env) {
	for _, name := range names {
		_, value, ok := env.Lookup(name)
		if !ok {
			s.Unset(buf, name)
			continue
		}
		s.Export(buf, name, value)
	}
}

// Hook writes an activation script for the delta.
// The script references the value at the time it runs,
// instead of the value the delta was computed with
func (s *Shell) Hook(buf *bytes.Buffer, d *activate.Delta) {
	for _, change := range d.Changes {
		if change.Unset {
			s.Unset(buf, change.Name)
			continue
		}
		if len(change.Prepend) == 0 {
			s.Export(buf, change.Name, change.Value)
			continue
		}
		segments := make([]string, len(change.Prepend))
		for i, segment := range change.Prepend {
			segments[i] = s.Escape(segment)
		}
		s.line(buf, s.PrependFormat,
			change.Name, strings.Join(segments, activate.ListSeparator))
	}
}

// DeactivateHook writes a script that reverses the activation delta
func (s *Shell) DeactivateHook(buf *bytes.Buffer, d *activate.Delta) {
	for _, change := range d.Changes {
		if len(change.Prepend) == 0 {
			s.Unset(buf, change.Name)
			continue
		}
		for _, segment := range change.Prepend {
			s.line(buf, s.RemoveFormat, change.Name, s.Escape(segment))
		}
	}
}

// Script returns the header followed by the body
func (s *Shell) Script(body *bytes.Buffer) *bytes.Buffer {
	buf := new(bytes.Buffer)
	if s.Header != "" {
		buf.WriteString(s.Header)
		buf.WriteString(s.LineBreak)
	}
	buf.Write(body.Bytes())
	return buf
}

// .............................................................................

func cmdEscape(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// shQuote returns a single-quoted string for POSIX shells:
// ' -> '\'' (close quote, escape single quote, reopen)
func shQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// dqEscape for use inside double quotes in POSIX shells
func dqEscape(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"$", `\$`,
		"`", "\\`",
	).Replace(s)
}

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func psQuote(s string) string {
	return "'" + psEscape(s) + "'"
}
