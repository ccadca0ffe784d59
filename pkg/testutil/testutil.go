package testutil

import (
	"testing"

	"github.com/matryer/is"
	"github.com/mozey/logutil"
	"github.com/mozey/toolenv/pkg/activate"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Root used by tests, paths are never checked by activation
const Root = `C:\toolchains`

// Params returns activation params used by tests.
// A new struct is returned on each call, tests may modify it
func Params() activate.Params {
	return activate.Params{
		Root:          Root,
		SDKVersion:    "10.0.19041.0",
		SDKTargetArch: "x64",
		MSVCVersion:   "14.38.33130",
		HostArch:      "x64",
		TargetArch:    "x64",
	}
}

// Env returns an environment with the path list variables set
func Env() activate.Env {
	return activate.Env{
		"PATH":    `C:\Windows\system32;C:\Windows`,
		"INCLUDE": `C:\include`,
		"LIB":     `C:\lib`,
		"OTHER":   "other",
	}
}

// I wraps is.I
type I struct {
	*is.I
	t *testing.T
}

// NoErr logs the error with stack trace if err is not nil and exits
func (is *I) NoErr(err error) {
	is.t.Helper()
	if err != nil {
		type stackTracer interface {
			StackTrace() errors.StackTrace
		}
		_, ok := err.(stackTracer)
		if !ok {
			// Add stack trace to err if it doesn't have one
			err = errors.WithStack(err)
		}
		log.Error().Stack().Err(err).Msg("")
	}
	is.I.NoErr(err)
}

func New(t *testing.T, is *is.I) *I {
	return &I{t: t, I: is}
}

func Setup(t *testing.T) *I {
	logutil.SetupLogger(true)
	return New(t, is.New(t))
}
