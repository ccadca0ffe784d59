package cmdtoolenv

// This file defines x-platform shell formats,
// the corresponding "unix.go" and "windows.go" files set the default shell

// Files with build constraints will only build for that OS,
// see this https://stackoverflow.com/a/25162021/639133

// .............................................................................
// cmd.exe

// Note the difference between set and setx
// https://superuser.com/a/916652/537059
const CmdExportFormat = `set "%[1]s=%[2]s"`
const CmdUnsetFormat = `set "%[1]s="`

// CmdPrependFormat doesn't leave a trailing separator if the var is not defined
const CmdPrependFormat = `if defined %[1]s (set "%[1]s=%[2]s;%%%[1]s%%") else (set "%[1]s=%[2]s")`

// CmdRemoveFormat uses string substitution, i.e. %VAR:str1=str2%,
// on the list wrapped in separators, then strips the wrapping.
// Substitution replaces every occurrence, cmd.exe has no first-only form
const CmdRemoveFormat = `set "%[1]s=;%%%[1]s%%;"` + CmdLineBreak +
	`set "%[1]s=%%%[1]s:;%[2]s;=;%%"` + CmdLineBreak +
	`set "%[1]s=%%%[1]s:~1,-1%%"`
const CmdLineBreak = "\r\n"
const CmdHeader = "@echo off"

// .............................................................................
// bash

const BashExportFormat = "export %[1]s=%[2]s"
const BashUnsetFormat = "unset %[1]s"
const BashPrependFormat = `export %[1]s="%[2]s${%[1]s:+;${%[1]s}}"`

// BashRemoveFormat removes the first occurrence from the list wrapped in
// separators, the pattern is quoted so it's matched literally
const BashRemoveFormat = `toolenv_list=";${%[1]s};"; ` +
	`toolenv_list="${toolenv_list/";%[2]s;"/;}"; ` +
	`toolenv_list="${toolenv_list#;}"; ` +
	`export %[1]s="${toolenv_list%%;}"; unset toolenv_list; ` +
	`[ -n "${%[1]s}" ] || unset %[1]s`
const BashLineBreak = "\n"
const BashHeader = "#!/usr/bin/env bash"

// .............................................................................
// PowerShell

const PowerShellExportFormat = "$env:%[1]s = %[2]s"
const PowerShellUnsetFormat = "Remove-Item Env:%[1]s -ErrorAction SilentlyContinue"
const PowerShellPrependFormat = "$env:%[1]s = '%[2]s' + " +
	"$(if ($env:%[1]s) { ';' + $env:%[1]s } else { '' })"

// PowerShellRemoveFormat removes the first occurrence,
// setting an env var to an empty string removes it
const PowerShellRemoveFormat = "$toolenvList = ';' + $env:%[1]s + ';'; " +
	"$toolenvIndex = $toolenvList.IndexOf(';%[2]s;', [StringComparison]::Ordinal); " +
	"if ($toolenvIndex -ge 0) { $toolenvList = $toolenvList.Remove($toolenvIndex, '%[2]s'.Length + 1) }; " +
	"$env:%[1]s = $(if ($toolenvList.Length -gt 1) { $toolenvList.Substring(1, $toolenvList.Length - 2) } else { '' })"
const PowerShellLineBreak = "\r\n"
const PowerShellHeader = ""
