package activate

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind of toolchain, each kind has its own path template table
type Kind string

const (
	// KindSDK is the Windows Kits platform SDK
	KindSDK Kind = "sdk"
	// KindCompiler is the MSVC compiler toolchain
	KindCompiler Kind = "compiler"
)

// Environment variables changed by activation
const (
	VarPath              = "PATH"
	VarInclude           = "INCLUDE"
	VarLib               = "LIB"
	VarVCToolsInstallDir = "VCToolsInstallDir"
)

// ListSeparator joins entries of path list variables
const ListSeparator = ";"

// PathSeparator joins path components, the toolchain is always Windows
const PathSeparator = `\`

// DefaultKinds in the order they are activated
func DefaultKinds() []Kind {
	return []Kind{KindSDK, KindCompiler}
}

// ParseKind accepts the kind tag, and the "msvc" alias for the compiler
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindSDK):
		return KindSDK, nil
	case string(KindCompiler), "msvc":
		return KindCompiler, nil
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// ParseKinds parses a list of kinds, comma separated values are split
func ParseKinds(a []string) (kinds []Kind, err error) {
	kinds = make([]Kind, 0, len(a))
	for _, s := range a {
		for _, part := range strings.Split(s, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			kind, err := ParseKind(part)
			if err != nil {
				return kinds, err
			}
			kinds = append(kinds, kind)
		}
	}
	return kinds, nil
}

// derivedVar is computed from params, and may reference
// derived vars listed before it
type derivedVar struct {
	Name     string
	Template string
}

// varTemplate describes how one environment variable changes
type varTemplate struct {
	Name string
	// Segments are prepended to the current value, in order
	Segments []string
	// Value replaces the current value if there are no segments
	Value string
}

type table struct {
	Derived []derivedVar
	Vars    []varTemplate
	// Dirs that must exist for the version params to be correct
	Dirs []string
}

var tables = map[Kind]table{
	KindSDK: {
		Derived: []derivedVar{
			{"SDK_INCLUDE", `@{ROOT}\Windows Kits\10\Include\@{SDK_VERSION}`},
			{"SDK_LIBS", `@{ROOT}\Windows Kits\10\Lib\@{SDK_VERSION}`},
			{"SDK_BIN", `@{ROOT}\Windows Kits\10\bin\@{SDK_VERSION}\@{SDK_TARGET_ARCH}`},
		},
		Vars: []varTemplate{
			{Name: VarPath, Segments: []string{
				`@{SDK_BIN}`,
				`@{SDK_BIN}\ucrt`,
			}},
			{Name: VarInclude, Segments: []string{
				`@{SDK_INCLUDE}\ucrt`,
				`@{SDK_INCLUDE}\shared`,
				`@{SDK_INCLUDE}\um`,
				`@{SDK_INCLUDE}\winrt`,
				`@{SDK_INCLUDE}\cppwinrt`,
			}},
			{Name: VarLib, Segments: []string{
				`@{SDK_LIBS}\ucrt\@{SDK_TARGET_ARCH}`,
				`@{SDK_LIBS}\um\@{SDK_TARGET_ARCH}`,
			}},
		},
		Dirs: []string{
			`@{SDK_INCLUDE}`,
			`@{SDK_LIBS}`,
			`@{ROOT}\Windows Kits\10\bin\@{SDK_VERSION}`,
		},
	},

	KindCompiler: {
		Derived: []derivedVar{
			{"MSVC_ROOT", `@{ROOT}\VC\Tools\MSVC\@{MSVC_VERSION}`},
		},
		Vars: []varTemplate{
			{Name: VarVCToolsInstallDir, Value: `@{MSVC_ROOT}\`},
			{Name: VarPath, Segments: []string{
				`@{MSVC_ROOT}\bin\Host@{HOST_ARCH}\@{TARGET_ARCH}`,
			}},
			{Name: VarInclude, Segments: []string{
				`@{MSVC_ROOT}\include`,
			}},
			{Name: VarLib, Segments: []string{
				`@{MSVC_ROOT}\lib\@{TARGET_ARCH}`,
			}},
		},
		Dirs: []string{
			`@{MSVC_ROOT}`,
		},
	},
}

func getTable(kind Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return t, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return t, nil
}
