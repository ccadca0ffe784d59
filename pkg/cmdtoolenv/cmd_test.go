package cmdtoolenv

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/mozey/toolenv/pkg/testutil"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const msvcRoot = `C:\toolchains\VC\Tools\MSVC\14.38.33130`
const sdkBin = `C:\toolchains\Windows Kits\10\bin\10.0.19041.0\x64`

// newCmdIn sets params with flags, as if the user passed them
func newCmdIn(shell string, kinds ...string) *CmdIn {
	p := testutil.Params()
	return &CmdIn{
		Environ:     testutil.Env(),
		Kinds:       kinds,
		Root:        p.Root,
		SDKVersion:  p.SDKVersion,
		MSVCVersion: p.MSVCVersion,
		Shell:       shell,
		Stdout:      new(bytes.Buffer),
	}
}

func lines(lineBreak string, a ...string) string {
	return strings.Join(a, lineBreak) + lineBreak
}

func TestCmdActivateBash(t *testing.T) {
	is := testutil.Setup(t)
	in := newCmdIn(ShellBash, "compiler")

	out, err := Cmd(in)
	is.NoErr(err)
	is.Equal(out.Cmd, CmdActivate)
	is.Equal(len(out.Deltas), 1)
	is.Equal(out.Buf.String(), lines("\n",
		`export VCToolsInstallDir='`+msvcRoot+`\'`,
		`export PATH='`+msvcRoot+`\bin\Hostx64\x64;C:\Windows\system32;C:\Windows'`,
		`export INCLUDE='`+msvcRoot+`\include;C:\include'`,
		`export LIB='`+msvcRoot+`\lib\x64;C:\lib'`,
	))

	exitCode, err := in.Process(out)
	is.NoErr(err)
	is.Equal(exitCode, 0)
	is.Equal(in.Stdout.(*bytes.Buffer).String(), out.Buf.String())
}

func TestCmdActivateCmdBothKinds(t *testing.T) {
	in := newCmdIn(ShellCmd)

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Len(t, out.Deltas, 2)
	require.Equal(t, activate.KindSDK, out.Deltas[0].Kind)
	require.Equal(t, activate.KindCompiler, out.Deltas[1].Kind)

	s := out.Buf.String()
	require.Equal(t, 4, strings.Count(s, "\r\n"))
	require.Contains(t, s, `set "PATH=`+strings.Join([]string{
		msvcRoot + `\bin\Hostx64\x64`,
		sdkBin,
		sdkBin + `\ucrt`,
		`C:\Windows\system32`,
		`C:\Windows`,
	}, ";")+`"`+"\r\n")
	require.Contains(t, s, `set "VCToolsInstallDir=`+msvcRoot+`\"`)
	// The first kind sets PATH first
	require.True(t, strings.HasPrefix(s, `set "PATH=`))
}

func TestCmdActivatePowerShell(t *testing.T) {
	in := newCmdIn(ShellPowerShell, "compiler")
	in.Environ["PATH"] = `C:\it's`

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Contains(t, out.Buf.String(),
		`$env:PATH = '`+msvcRoot+`\bin\Hostx64\x64;C:\it''s'`+"\r\n")
}

func TestCmdActivateHookFormat(t *testing.T) {
	in := newCmdIn(ShellBash, "compiler")
	in.Format = FormatHook

	out, err := Cmd(in)
	require.NoError(t, err)
	esc := strings.ReplaceAll(msvcRoot, `\`, `\\`)
	require.Equal(t, lines("\n",
		`#!/usr/bin/env bash`,
		`export VCToolsInstallDir='`+msvcRoot+`\'`,
		`export PATH="`+esc+`\\bin\\Hostx64\\x64${PATH:+;${PATH}}"`,
		`export INCLUDE="`+esc+`\\include${INCLUDE:+;${INCLUDE}}"`,
		`export LIB="`+esc+`\\lib\\x64${LIB:+;${LIB}}"`,
	), out.Buf.String())
	// Activation time values are not used
	require.NotContains(t, out.Buf.String(), `C:\Windows`)
}

func TestCmdActivateHookFormatCmd(t *testing.T) {
	in := newCmdIn(ShellCmd, "compiler")
	in.Format = FormatHook

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Equal(t, lines("\r\n",
		`@echo off`,
		`set "VCToolsInstallDir=`+msvcRoot+`\"`,
		`if defined PATH (set "PATH=`+msvcRoot+`\bin\Hostx64\x64;%PATH%") `+
			`else (set "PATH=`+msvcRoot+`\bin\Hostx64\x64")`,
		`if defined INCLUDE (set "INCLUDE=`+msvcRoot+`\include;%INCLUDE%") `+
			`else (set "INCLUDE=`+msvcRoot+`\include")`,
		`if defined LIB (set "LIB=`+msvcRoot+`\lib\x64;%LIB%") `+
			`else (set "LIB=`+msvcRoot+`\lib\x64")`,
	), out.Buf.String())
}

func TestCmdDeactivate(t *testing.T) {
	is := testutil.Setup(t)
	in := newCmdIn(ShellBash)

	_, activated, err := activate.ActivateAll(
		activate.DefaultKinds(), testutil.Params(), in.Environ)
	is.NoErr(err)
	in.Environ = activated
	in.Deactivate = true

	out, err := Cmd(in)
	is.NoErr(err)
	is.Equal(out.Cmd, CmdDeactivate)
	is.Equal(out.Buf.String(), lines("\n",
		`unset VCToolsInstallDir`,
		`export PATH='C:\Windows\system32;C:\Windows'`,
		`export INCLUDE='C:\include'`,
		`export LIB='C:\lib'`,
	))
}

func TestCmdDeactivateHookFormat(t *testing.T) {
	in := newCmdIn(ShellCmd, "compiler")
	in.Deactivate = true
	in.Format = FormatHook

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Equal(t, lines("\r\n",
		`@echo off`,
		`set "VCToolsInstallDir="`,
		`set "PATH=;%PATH%;"`,
		`set "PATH=%PATH:;`+msvcRoot+`\bin\Hostx64\x64;=;%"`,
		`set "PATH=%PATH:~1,-1%"`,
		`set "INCLUDE=;%INCLUDE%;"`,
		`set "INCLUDE=%INCLUDE:;`+msvcRoot+`\include;=;%"`,
		`set "INCLUDE=%INCLUDE:~1,-1%"`,
		`set "LIB=;%LIB%;"`,
		`set "LIB=%LIB:;`+msvcRoot+`\lib\x64;=;%"`,
		`set "LIB=%LIB:~1,-1%"`,
	), out.Buf.String())
}

func TestCmdDotenvAndJSON(t *testing.T) {
	in := newCmdIn(ShellBash, "compiler")
	in.Environ = activate.Env{}
	in.Format = FormatDotenv

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Equal(t, lines("\n",
		`INCLUDE=`+msvcRoot+`\include`,
		`LIB=`+msvcRoot+`\lib\x64`,
		`PATH=`+msvcRoot+`\bin\Hostx64\x64`,
		`VCToolsInstallDir=`+msvcRoot+`\`,
	), out.Buf.String())

	in.Format = FormatJSON
	out, err = Cmd(in)
	require.NoError(t, err)
	m := make(map[string]string)
	require.NoError(t, json.Unmarshal(out.Buf.Bytes(), &m))
	require.Equal(t, msvcRoot+`\`, m["VCToolsInstallDir"])
	require.Len(t, m, 4)
}

func TestCmdHooks(t *testing.T) {
	tmp := t.TempDir()
	in := newCmdIn(ShellCmd)
	in.Hooks = tmp
	in.DryRun = true

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Equal(t, CmdHooks, out.Cmd)

	activateDir, deactivateDir := HookDirs(tmp)
	paths := make([]string, len(out.Files))
	for i, file := range out.Files {
		paths[i] = file.Path
	}
	require.Equal(t, []string{
		filepath.Join(activateDir, "vs_buildtools-sdk.bat"),
		filepath.Join(deactivateDir, "vs_buildtools-sdk.bat"),
		filepath.Join(activateDir, "vs_buildtools-msvc.bat"),
		filepath.Join(deactivateDir, "vs_buildtools-msvc.bat"),
	}, paths)

	// Dry run prints paths and contents
	exitCode, err := in.Process(out)
	require.NoError(t, err)
	require.Equal(t, 0, exitCode)
	printed := in.Stdout.(*bytes.Buffer).String()
	require.Contains(t, printed, "# FilePath: "+paths[2])
	require.Contains(t, printed, `set "PATH=`+msvcRoot+`\bin\Hostx64\x64;%PATH%"`)
	_, err = os.Stat(activateDir)
	require.True(t, os.IsNotExist(err))

	// Write files
	in.DryRun = false
	in.Stdout = new(bytes.Buffer)
	out, err = Cmd(in)
	require.NoError(t, err)
	_, err = in.Process(out)
	require.NoError(t, err)
	for _, p := range paths {
		require.FileExists(t, p)
	}
	b, err := os.ReadFile(paths[3])
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(b), "@echo off\r\nset \"VCToolsInstallDir=\"\r\n"))
	require.Equal(t, strings.Join(paths, "\n")+"\n", in.Stdout.(*bytes.Buffer).String())
}

func TestCmdRender(t *testing.T) {
	tmp := t.TempDir()
	templatePath := filepath.Join(tmp, "activate_msvc.bat")
	err := os.WriteFile(templatePath, []byte(
		"set \"VSINSTALLDIR=@{PREFIX}\\\"\r\n"+
			"set \"PATH=@{PREFIX}\\VC\\Tools\\MSVC\\@{MSVC_VERSION}\\bin\\Host@{HOST_ARCH}\\@{TARGET_ARCH};%PATH%\"\r\n"),
		0644)
	require.NoError(t, err)

	in := newCmdIn(ShellCmd)
	in.Render = templatePath

	out, err := Cmd(in)
	require.NoError(t, err)
	require.Equal(t, CmdRender, out.Cmd)
	require.Equal(t,
		"set \"VSINSTALLDIR=C:\\toolchains\\\"\r\n"+
			"set \"PATH="+msvcRoot+"\\bin\\Hostx64\\x64;%PATH%\"\r\n",
		out.Buf.String())

	// Write to file
	in.Out = filepath.Join(tmp, "out", "vs_buildtools-msvc.bat")
	out, err = Cmd(in)
	require.NoError(t, err)
	_, err = in.Process(out)
	require.NoError(t, err)
	b, err := os.ReadFile(in.Out)
	require.NoError(t, err)
	require.Contains(t, string(b), msvcRoot)

	// Unknown placeholder
	err = os.WriteFile(templatePath, []byte("@{NOPE}"), 0644)
	require.NoError(t, err)
	_, err = Cmd(in)
	require.Error(t, err)
}

func TestCmdCheck(t *testing.T) {
	in := newCmdIn(ShellBash)
	in.Check = true
	in.Exists = func(path string) bool {
		return path == testutil.Root
	}

	out, err := Cmd(in)
	require.NoError(t, err)
	// Warnings don't change the exit code or the output
	require.Equal(t, 0, out.ExitCode)
	require.Len(t, out.Warnings, 4)
	require.Equal(t, activate.MissingVersionDir, out.Warnings[0].Kind)
	require.Equal(t, activate.KindCompiler, out.Warnings[3].Toolchain)
	require.Contains(t, out.Buf.String(), "export PATH=")
}

func TestCmdErrors(t *testing.T) {
	in := newCmdIn("fish")
	_, err := Cmd(in)
	require.True(t, errors.Is(err, ErrUnknownShell))

	in = newCmdIn(ShellBash)
	in.Format = "xml"
	_, err = Cmd(in)
	require.True(t, errors.Is(err, ErrUnknownFormat))

	in = newCmdIn(ShellBash, "sdk", "clang")
	_, err = Cmd(in)
	require.True(t, errors.Is(err, activate.ErrUnknownKind))

	in = newCmdIn(ShellBash)
	in.ConfigFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = Cmd(in)
	require.Error(t, err)
}
