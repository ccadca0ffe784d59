package share

import "github.com/pkg/errors"

var ErrFileType = errors.New("unsupported config file type")

var ErrMissingSubstitute = errors.New("missing substitute")
