package backend

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var executionFailedError = &tracer.Error{
	Kind: "executionFailedError",
	Desc: "The Python child process did not produce the expected artefacts.",
}

func IsExecutionFailed(err error) bool {
	return errors.Is(err, executionFailedError)
}

var unknownHandleError = &tracer.Error{
	Kind: "unknownHandleError",
	Desc: "The handle was not created by this backend.",
}

func IsUnknownHandle(err error) bool {
	return errors.Is(err, unknownHandleError)
}
