package param

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var unsupportedConfigurationError = &tracer.Error{
	Kind: "unsupportedConfigurationError",
	Desc: "The configuration cannot be expressed as a backend objective.",
}

// IsUnsupportedConfiguration reports whether no backend objective exists for
// the requested cardinality and distribution family.
func IsUnsupportedConfiguration(err error) bool {
	return errors.Is(err, unsupportedConfigurationError)
}

var invalidConfigurationError = &tracer.Error{
	Kind: "invalidConfigurationError",
	Desc: "The configuration is not compatible with the response column.",
}

func IsInvalidConfiguration(err error) bool {
	return errors.Is(err, invalidConfigurationError)
}
