package cmdtoolenv

import (
	"strings"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/mozey/toolenv/pkg/share"
	"github.com/rs/zerolog/log"
)

// KeyPrefix for config file keys and env vars
const KeyPrefix = "TOOLENV_"

// Config keys, the same keys are read from env
const (
	KeyRoot          = KeyPrefix + "ROOT"
	KeySDKVersion    = KeyPrefix + "SDK_VERSION"
	KeySDKTargetArch = KeyPrefix + "SDK_TARGET_ARCH"
	KeyMSVCVersion   = KeyPrefix + "MSVC_VERSION"
	KeyHostArch      = KeyPrefix + "HOST_ARCH"
	KeyTargetArch    = KeyPrefix + "TARGET_ARCH"
	KeyKinds         = KeyPrefix + "KINDS"
	KeyConfig        = KeyPrefix + "CONFIG"
)

// Runtime env vars locating the toolchain root
const (
	EnvRootPrefix    = "ROOT_PREFIX"
	EnvLibraryPrefix = "LIBRARY_PREFIX"
	EnvCondaPrefix   = "CONDA_PREFIX"
)

// InstallDirName is the toolchain dir inside a conda library prefix
const InstallDirName = "vs_buildtools"

const DefaultArch = "x64"

// Keys lists config keys in the order they are logged
func Keys() []string {
	return []string{
		KeyRoot,
		KeySDKVersion,
		KeySDKTargetArch,
		KeyMSVCVersion,
		KeyHostArch,
		KeyTargetArch,
		KeyKinds,
	}
}

// flagValues maps config keys to values set with flags
func (in *CmdIn) flagValues() map[string]string {
	return map[string]string{
		KeyRoot:          in.Root,
		KeySDKVersion:    in.SDKVersion,
		KeySDKTargetArch: in.SDKTargetArch,
		KeyMSVCVersion:   in.MSVCVersion,
		KeyHostArch:      in.HostArch,
		KeyTargetArch:    in.TargetArch,
		KeyKinds:         strings.Join(in.Kinds, ","),
	}
}

// configFile returns the config file path, if any.
// If not set with a flag or env, config files in in.Dir are used
func (in *CmdIn) configFile() (configPath string, err error) {
	if in.ConfigFile != "" {
		return in.ConfigFile, nil
	}
	if v := in.Environ.Get(KeyConfig); v != "" {
		return v, nil
	}
	if in.Dir == "" {
		return "", nil
	}
	configPath, found, err := share.FindConfigFile(in.Dir)
	if err != nil || !found {
		return "", err
	}
	return configPath, nil
}

// ResolveValues merges config values.
// Precedence: flags, env, config file, runtime prefix vars, defaults
func (in *CmdIn) ResolveValues() (values map[string]string, err error) {
	values = make(map[string]string)

	// Defaults
	values[KeyHostArch] = DefaultArch
	values[KeyTargetArch] = DefaultArch

	// Runtime prefix vars, conda sets LIBRARY_PREFIX during builds,
	// and CONDA_PREFIX in activated environments
	if v := in.Environ.Get(EnvCondaPrefix); v != "" {
		values[KeyRoot] = joinWindows(v, "Library", InstallDirName)
	}
	if v := in.Environ.Get(EnvLibraryPrefix); v != "" {
		values[KeyRoot] = joinWindows(v, InstallDirName)
	}

	// Config file
	configPath, err := in.configFile()
	if err != nil {
		return values, err
	}
	if configPath != "" {
		configMap, err := share.LoadConfigFile(configPath)
		if err != nil {
			log.Info().Str("config_path", configPath).Msg("")
			return values, err
		}
		for _, key := range Keys() {
			if v := strings.TrimSpace(configMap[key]); v != "" {
				values[key] = v
			}
		}
	}

	// Env
	if v := in.Environ.Get(EnvRootPrefix); v != "" {
		values[KeyRoot] = v
	}
	for _, key := range Keys() {
		if v := strings.TrimSpace(in.Environ.Get(key)); v != "" {
			values[key] = v
		}
	}

	// Flags
	for key, v := range in.flagValues() {
		if strings.TrimSpace(v) != "" {
			values[key] = v
		}
	}

	// The SDK arch follows the target arch unless it's set
	if values[KeySDKTargetArch] == "" {
		values[KeySDKTargetArch] = values[KeyTargetArch]
	}

	for _, key := range Keys() {
		log.Debug().Str("key", key).Str("value", values[key]).Msg("resolved")
	}

	return values, nil
}

// ResolveParams returns activation params and kinds for the cmd
func (in *CmdIn) ResolveParams() (
	p activate.Params, kinds []activate.Kind, err error) {

	values, err := in.ResolveValues()
	if err != nil {
		return p, kinds, err
	}

	p = activate.Params{
		Root:          values[KeyRoot],
		SDKVersion:    values[KeySDKVersion],
		SDKTargetArch: values[KeySDKTargetArch],
		MSVCVersion:   values[KeyMSVCVersion],
		HostArch:      values[KeyHostArch],
		TargetArch:    values[KeyTargetArch],
	}

	kinds = activate.DefaultKinds()
	if values[KeyKinds] != "" {
		kinds, err = activate.ParseKinds([]string{values[KeyKinds]})
		if err != nil {
			return p, kinds, err
		}
		if len(kinds) == 0 {
			kinds = activate.DefaultKinds()
		}
	}

	return p, kinds, nil
}

func joinWindows(elem ...string) string {
	for i := range elem {
		if i < len(elem)-1 {
			elem[i] = strings.TrimRight(elem[i], `\/`)
		}
	}
	return strings.Join(elem, activate.PathSeparator)
}
