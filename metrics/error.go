package metrics

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var invalidResponseError = &tracer.Error{
	Kind: "invalidResponseError",
	Desc: "The response column does not match the prediction it is compared to.",
}

func IsInvalidResponse(err error) bool {
	return errors.Is(err, invalidResponseError)
}
