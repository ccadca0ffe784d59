package activate

import "github.com/pkg/errors"

var ErrUnknownKind = errors.New("unknown toolchain kind")
