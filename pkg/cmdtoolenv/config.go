package cmdtoolenv

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mozey/toolenv/pkg/activate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// .............................................................................

// CmdIn for use with command functions
type CmdIn struct {
	// Environ is the environment visible at invocation time
	Environ activate.Env
	// Kinds of toolchain to activate, in order
	Kinds []string
	// Params flags, empty values are resolved from env and config file
	Root          string
	SDKVersion    string
	SDKTargetArch string
	MSVCVersion   string
	HostArch      string
	TargetArch    string
	// ConfigFile with flat key value params
	ConfigFile string
	// Dir to look for toolenv.{env,sh,json,yaml} if ConfigFile is not set
	Dir string
	// Shell family commands are formatted for
	Shell string
	// Format of the output
	Format string
	// Deactivate instead of activate
	Deactivate bool
	// Hooks is the prefix to write activation hooks to
	Hooks  string
	DryRun bool
	// Render is a template file with @{NAME} placeholders
	Render string
	// Out is the file path for the rendered template
	Out string
	// Check paths exist, and log warnings if not
	Check bool
	Debug bool
	// Exists is used with Check
	Exists func(path string) bool
	// Stdout for Process, defaults to os.Stdout
	Stdout io.Writer
}

func (in *CmdIn) stdout() io.Writer {
	if in.Stdout == nil {
		return os.Stdout
	}
	return in.Stdout
}

// .............................................................................

type File struct {
	// Path to file
	Path string
	// Buf for new file content
	Buf *bytes.Buffer
}

type Files []File

// Print file paths and contents to buf
func (files Files) Print(buf *bytes.Buffer) {
	for _, file := range files {
		// empty file.Path implies nothing was generated
		if file.Path != "" {
			buf.WriteString(fmt.Sprintf("# FilePath: %s\n", file.Path))
			buf.Write(file.Buf.Bytes())
			buf.WriteString("\n")
		}
	}
}

// Save file contents to disk, and print paths to buf
func (files Files) Save(buf *bytes.Buffer) (err error) {
	for _, file := range files {
		// empty file.Path implies nothing was generated
		if file.Path != "" {
			// Make sure parent dirs exist
			err := os.MkdirAll(filepath.Dir(file.Path), 0755)
			if err != nil {
				log.Info().Str("file_path", file.Path).Msg("")
				return errors.WithStack(err)
			}
			// Write the file
			err = os.WriteFile(file.Path, file.Buf.Bytes(), 0644)
			if err != nil {
				log.Info().Str("file_path", file.Path).Msg("")
				return errors.WithStack(err)
			}
			// Print file path only
			buf.WriteString(file.Path)
			buf.WriteString("\n")
		}
	}

	return nil
}

// CmdOut for use with Cmd function
type CmdOut struct {
	// Cmd is the unique command that was executed
	Cmd string
	// ExitCode can be non-zero if the err returned is nil
	ExitCode int
	// Buf of cmd output
	Buf *bytes.Buffer
	// Files to write if in.DryRun is not set
	Files Files
	// Deltas computed by the cmd, if any
	Deltas []*activate.Delta
	// Warnings found with the check flag
	Warnings []activate.Warning
}
