package activate

import (
	"strings"

	"github.com/mozey/toolenv/pkg/share"
)

// Params for activation.
// Values are opaque strings and never validated here
type Params struct {
	// Root is the toolchain installation dir
	Root          string
	SDKVersion    string
	SDKTargetArch string
	MSVCVersion   string
	HostArch      string
	TargetArch    string
}

// Template variable names, e.g. @{SDK_VERSION}
const (
	SubPrefix        = "PREFIX"
	SubRoot          = "ROOT"
	SubSDKVersion    = "SDK_VERSION"
	SubSDKTargetArch = "SDK_TARGET_ARCH"
	SubMSVCVersion   = "MSVC_VERSION"
	SubHostArch      = "HOST_ARCH"
	SubTargetArch    = "TARGET_ARCH"
)

// Substitutes returns the template variables for params.
// PREFIX is an alias for ROOT, trailing separators are removed from both
func (p Params) Substitutes() map[string]string {
	root := strings.TrimRight(p.Root, `\/`)
	return map[string]string{
		SubPrefix:        root,
		SubRoot:          root,
		SubSDKVersion:    p.SDKVersion,
		SubSDKTargetArch: p.SDKTargetArch,
		SubMSVCVersion:   p.MSVCVersion,
		SubHostArch:      p.HostArch,
		SubTargetArch:    p.TargetArch,
	}
}

// Derived returns the intermediate paths for kind, e.g. MSVC_ROOT
func (p Params) Derived(kind Kind) (derived map[string]string, err error) {
	t, err := getTable(kind)
	if err != nil {
		return derived, err
	}
	vars, err := p.vars(t)
	if err != nil {
		return derived, err
	}
	derived = make(map[string]string, len(t.Derived))
	for _, d := range t.Derived {
		derived[d.Name] = vars[d.Name]
	}
	return derived, nil
}

// vars returns substitutes with the derived vars of t added
func (p Params) vars(t table) (vars map[string]string, err error) {
	vars = p.Substitutes()
	for _, d := range t.Derived {
		vars[d.Name], err = share.Substitute(d.Template, vars)
		if err != nil {
			return vars, err
		}
	}
	return vars, nil
}
