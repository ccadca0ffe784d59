package cmdtoolenv

import "github.com/pkg/errors"

var ErrUnknownShell = errors.New("unknown shell")

var ErrUnknownFormat = errors.New("unknown format")

var ErrInvalidFlags = errors.New("invalid flags")
