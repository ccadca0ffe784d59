package cmdtoolenv

import (
	"fmt"
	"os"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

const (
	FlagKind          = "kind"
	FlagRoot          = "root"
	FlagSDKVersion    = "sdk-version"
	FlagSDKTargetArch = "sdk-target-arch"
	FlagMSVCVersion   = "msvc-version"
	FlagHostArch      = "host-arch"
	FlagTargetArch    = "target-arch"
	FlagConfig        = "config"
	FlagShell         = "shell"
	FlagFormat        = "format"
	FlagDeactivate    = "deactivate"
	FlagHooks         = "hooks"
	FlagDryRun        = "dry-run"
	FlagRender        = "render"
	FlagOut           = "out"
	FlagCheck         = "check"
	FlagDebug         = "debug"
)

// ParseFlags before calling Cmd
func ParseFlags(args []string) (*CmdIn, error) {
	in := CmdIn{}

	flags := pflag.NewFlagSet("toolenv", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: toolenv [options]\n\n")
		fmt.Fprintf(os.Stderr, "toolenv prints commands that activate the MSVC compiler\n")
		fmt.Fprintf(os.Stderr, "and Windows Kits SDK by prepending to PATH, INCLUDE and LIB.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  toolenv --shell cmd > activate.bat      # Both toolchains\n")
		fmt.Fprintf(os.Stderr, "  eval \"$(toolenv -k compiler)\"            # Compiler only\n")
		fmt.Fprintf(os.Stderr, "  toolenv --hooks %%CONDA_PREFIX%% --dry-run # Print conda hooks\n")
	}

	// Default must be empty, see DefaultKinds
	flags.StringSliceVarP(&in.Kinds,
		FlagKind, "k", nil, "Toolchain kinds to activate, sdk and/or compiler")
	flags.StringVar(&in.Root,
		FlagRoot, "", "Toolchain root dir, defaults to $ROOT_PREFIX")
	flags.StringVar(&in.SDKVersion,
		FlagSDKVersion, "", "Windows Kits SDK version, e.g. 10.0.19041.0")
	flags.StringVar(&in.SDKTargetArch,
		FlagSDKTargetArch, "", "SDK arch, defaults to the target arch")
	flags.StringVar(&in.MSVCVersion,
		FlagMSVCVersion, "", "MSVC version, e.g. 14.38.33130")
	flags.StringVar(&in.HostArch,
		FlagHostArch, "", "Host arch, defaults to "+DefaultArch)
	flags.StringVar(&in.TargetArch,
		FlagTargetArch, "", "Target arch, defaults to "+DefaultArch)
	flags.StringVarP(&in.ConfigFile,
		FlagConfig, "c", "", "Config file (.env, .sh, .json or .yaml)")
	flags.StringVarP(&in.Shell,
		FlagShell, "s", DefaultShell, "Shell family: cmd, bash or powershell")
	flags.StringVarP(&in.Format,
		FlagFormat, "f", FormatExport, "Output format: export, hook, dotenv or json")
	flags.BoolVarP(&in.Deactivate,
		FlagDeactivate, "d", false, "Deactivate instead of activate")
	flags.StringVar(&in.Hooks,
		FlagHooks, "", "Write conda activation hooks to etc/conda in this prefix")
	flags.BoolVar(&in.DryRun,
		FlagDryRun, false, "Don't write files, just print result")
	flags.StringVar(&in.Render,
		FlagRender, "", "Substitute @{NAME} placeholders in this template file")
	flags.StringVarP(&in.Out,
		FlagOut, "o", "", "Write the rendered template to this file")
	flags.BoolVar(&in.Check,
		FlagCheck, false, "Warn if toolchain dirs don't exist")
	flags.BoolVar(&in.Debug,
		FlagDebug, false, "Enable debug logging")

	err := flags.Parse(args)
	if err != nil {
		return &in, err
	}
	if flags.NArg() > 0 {
		return &in, errors.Wrapf(ErrInvalidFlags,
			"unexpected arguments %v", flags.Args())
	}
	if in.Out != "" && in.Render == "" {
		return &in, errors.Wrapf(ErrInvalidFlags,
			"--%s requires --%s", FlagOut, FlagRender)
	}

	return &in, nil
}

// Main can be executed by default.
// For custom flags and CMDs copy the code below.
// Try not to change the behaviour of default CMDs,
// e.g. custom flags must only add functionality
func Main() {
	// Commands are printed to stdout, logs must not be mixed in
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Parse flags
	in, err := ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		log.Error().Stack().Err(err).Msg("")
		os.Exit(1)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if in.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	in.Environ = activate.ProcessEnv()
	in.Exists = activate.HostExists
	in.Dir, err = os.Getwd()
	if err != nil {
		log.Error().Stack().Err(errors.WithStack(err)).Msg("")
		os.Exit(1)
	}

	// Run cmd
	out, err := Cmd(in)
	if err != nil {
		log.Error().Stack().Err(err).Msg("")
		os.Exit(1)
	}

	// Process cmd results
	exitCode, err := in.Process(out)
	if err != nil {
		log.Error().Stack().Err(err).Msg("")
	}
	os.Exit(exitCode)
}
