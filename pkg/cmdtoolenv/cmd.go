package cmdtoolenv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/mozey/toolenv/pkg/share"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	CmdActivate   = "activate"
	CmdDeactivate = "deactivate"
	CmdHooks      = "hooks"
	CmdRender     = "render"
)

// Output formats
const (
	FormatExport = "export"
	FormatHook   = "hook"
	FormatDotenv = "dotenv"
	FormatJSON   = "json"
)

// Cmd runs a command given flags and input from the user
func Cmd(in *CmdIn) (out *CmdOut, err error) {
	out = &CmdOut{}

	p, kinds, err := in.ResolveParams()
	if err != nil {
		return out, err
	}

	if in.Check {
		out.Warnings, err = check(in, kinds, p)
		if err != nil {
			return out, err
		}
	}

	if in.Render != "" {
		// Substitute template placeholders
		buf, files, err := render(in, p)
		if err != nil {
			return out, err
		}
		out.Cmd = CmdRender
		out.Buf = buf
		out.Files = files
		return out, nil

	} else if in.Hooks != "" {
		// Generate activation and deactivation hooks
		s, err := GetShell(in.shell())
		if err != nil {
			return out, err
		}
		files, deltas, err := hookFiles(s, in.Hooks, kinds, p)
		if err != nil {
			return out, err
		}
		out.Cmd = CmdHooks
		out.Buf = new(bytes.Buffer)
		out.Files = files
		out.Deltas = deltas
		return out, nil

	} else if in.Deactivate {
		buf, deltas, err := deactivate(in, kinds, p)
		if err != nil {
			return out, err
		}
		out.Cmd = CmdDeactivate
		out.Buf = buf
		out.Deltas = deltas
		return out, nil
	}

	// Default
	// Print commands to activate
	buf, deltas, err := activateEnv(in, kinds, p)
	if err != nil {
		return out, err
	}
	out.Cmd = CmdActivate
	out.Buf = buf
	out.Deltas = deltas
	return out, nil
}

// Process the output of the Cmd func.
// For example, this is where results are printed to stdout or disk IO happens,
// depending on the whether the in.DryRun flag was set
func (in *CmdIn) Process(out *CmdOut) (exitCode int, err error) {
	w := in.stdout()
	if out.Buf == nil {
		out.Buf = new(bytes.Buffer)
	}

	switch out.Cmd {
	case CmdActivate, CmdDeactivate:
		// .....................................................................
		// Print commands
		fmt.Fprint(w, out.Buf.String())

	case CmdHooks, CmdRender:
		// .....................................................................
		if len(out.Files) == 0 {
			fmt.Fprint(w, out.Buf.String())
			break
		}
		if in.DryRun {
			// Print file paths and generated text
			out.Files.Print(out.Buf)
		} else {
			// Create or update the files
			err = out.Files.Save(out.Buf)
			if err != nil {
				return 1, err
			}
		}
		fmt.Fprint(w, out.Buf.String())

	default:
		return 1, errors.Errorf("unknown cmd %s", out.Cmd)
	}

	return out.ExitCode, nil
}

func (in *CmdIn) shell() string {
	if strings.TrimSpace(in.Shell) == "" {
		return DefaultShell
	}
	return in.Shell
}

func (in *CmdIn) format() string {
	if strings.TrimSpace(in.Format) == "" {
		return FormatExport
	}
	return strings.ToLower(strings.TrimSpace(in.Format))
}

// .............................................................................

// check logs warnings for missing dirs, warnings don't fail the cmd
func check(in *CmdIn, kinds []activate.Kind, p activate.Params) (
	warnings []activate.Warning, err error) {

	exists := in.Exists
	if exists == nil {
		exists = activate.HostExists
	}
	warnings = make([]activate.Warning, 0)
	for _, kind := range kinds {
		w, err := activate.Validate(kind, p, exists)
		if err != nil {
			return warnings, err
		}
		for _, warning := range w {
			log.Warn().
				Str("kind", string(warning.Toolchain)).
				Str("warning", string(warning.Kind)).
				Str("path", warning.Path).
				Msg("toolchain path not found")
		}
		warnings = append(warnings, w...)
	}
	return warnings, nil
}

// .............................................................................

func activateEnv(in *CmdIn, kinds []activate.Kind, p activate.Params) (
	buf *bytes.Buffer, deltas []*activate.Delta, err error) {

	deltas, result, err := activate.ActivateAll(kinds, p, in.Environ)
	if err != nil {
		return buf, deltas, err
	}

	if in.format() == FormatHook {
		// Hooks must not depend on the current value
		deltas = make([]*activate.Delta, 0, len(kinds))
		for _, kind := range kinds {
			d, err := activate.Activate(kind, p, activate.Env{})
			if err != nil {
				return buf, deltas, err
			}
			deltas = append(deltas, d)
		}
	}

	buf, err = formatDeltas(in, deltas, result, false)
	return buf, deltas, err
}

func deactivate(in *CmdIn, kinds []activate.Kind, p activate.Params) (
	buf *bytes.Buffer, deltas []*activate.Delta, err error) {

	if in.format() == FormatHook {
		// Deactivation hooks are rendered from activation deltas
		deltas = make([]*activate.Delta, 0, len(kinds))
		for i := len(kinds) - 1; i >= 0; i-- {
			d, err := activate.Activate(kinds[i], p, activate.Env{})
			if err != nil {
				return buf, deltas, err
			}
			deltas = append(deltas, d)
		}
		buf, err = formatDeltas(in, deltas, nil, true)
		return buf, deltas, err
	}

	deltas, result, err := activate.DeactivateAll(kinds, p, in.Environ)
	if err != nil {
		return buf, deltas, err
	}
	buf, err = formatDeltas(in, deltas, result, false)
	return buf, deltas, err
}

// formatDeltas writes deltas in the format set on in,
// result is the environment after all deltas were applied
func formatDeltas(in *CmdIn, deltas []*activate.Delta, result activate.Env,
	reverse bool) (buf *bytes.Buffer, err error) {

	buf = new(bytes.Buffer)
	names := activate.ChangedNames(deltas)

	switch in.format() {
	case FormatExport:
		s, err := GetShell(in.shell())
		if err != nil {
			return buf, err
		}
		s.ExportEnv(buf, names, result)

	case FormatHook:
		s, err := GetShell(in.shell())
		if err != nil {
			return buf, err
		}
		body := new(bytes.Buffer)
		for _, d := range deltas {
			if reverse {
				s.DeactivateHook(body, d)
			} else {
				s.Hook(body, d)
			}
		}
		buf = s.Script(body)

	case FormatDotenv:
		b, err := share.MarshalENV(finalValues(names, result))
		if err != nil {
			return buf, err
		}
		buf.Write(b)

	case FormatJSON:
		b, err := json.MarshalIndent(finalValues(names, result), "", "    ")
		if err != nil {
			return buf, errors.WithStack(err)
		}
		buf.Write(b)
		buf.WriteString("\n")

	default:
		return buf, errors.Wrapf(ErrUnknownFormat, "%q", in.Format)
	}

	return buf, nil
}

// finalValues maps names to values in result,
// names not in result map to an empty string
func finalValues(names []string, result activate.Env) map[string]string {
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[name] = result.Get(name)
	}
	return m
}

// .............................................................................

// render substitutes placeholders in the template file
func render(in *CmdIn, p activate.Params) (
	buf *bytes.Buffer, files Files, err error) {

	buf = new(bytes.Buffer)
	b, err := os.ReadFile(in.Render)
	if err != nil {
		return buf, files, errors.WithStack(err)
	}
	log.Debug().Str("template", in.Render).
		Strs("placeholders", share.Placeholders(string(b))).Msg("")

	s, err := share.Substitute(string(b), p.Substitutes())
	if err != nil {
		return buf, files, errors.Wrapf(err, "template %s", in.Render)
	}

	if in.Out != "" {
		files = Files{{
			Path: in.Out,
			Buf:  bytes.NewBufferString(s),
		}}
		return buf, files, nil
	}

	buf.WriteString(s)
	return buf, files, nil
}
