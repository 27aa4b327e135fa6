package model

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var missingEncodingDescriptorError = &tracer.Error{
	Kind: "missingEncodingDescriptorError",
	Desc: "The categorical encoding descriptor of the model is not stored anymore.",
}

// IsMissingEncodingDescriptor reports whether scoring failed because the
// model has no stored encoding descriptor and is unusable.
func IsMissingEncodingDescriptor(err error) bool {
	return errors.Is(err, missingEncodingDescriptorError)
}

var missingResponseError = &tracer.Error{
	Kind: "missingResponseError",
	Desc: "The training frame does not contain the response column.",
}

func IsMissingResponse(err error) bool {
	return errors.Is(err, missingResponseError)
}

var notTrainedError = &tracer.Error{
	Kind: "notTrainedError",
	Desc: "The model has no trained booster yet.",
}

func IsNotTrained(err error) bool {
	return errors.Is(err, notTrainedError)
}

var invalidRowError = &tracer.Error{
	Kind: "invalidRowError",
	Desc: "The row does not match the columns of the encoding descriptor.",
}

func IsInvalidRow(err error) bool {
	return errors.Is(err, invalidRowError)
}
