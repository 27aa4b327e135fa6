package handle

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var releasedHandleError = &tracer.Error{
	Kind: "releasedHandleError",
	Desc: "The trained handle got released and must not be used for scoring anymore.",
}

func IsReleasedHandle(err error) bool {
	return errors.Is(err, releasedHandleError)
}
