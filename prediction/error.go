package prediction

import (
	"errors"

	"github.com/xh3b4sd/tracer"
)

var contractViolationError = &tracer.Error{
	Kind: "contractViolationError",
	Desc: "The caller violated a precondition of prediction materialization.",
}

// IsContractViolation reports whether a recovered panic value or returned
// error signals a caller bug.
func IsContractViolation(err error) bool {
	return errors.Is(err, contractViolationError)
}

var invalidPredictionError = &tracer.Error{
	Kind: "invalidPredictionError",
	Desc: "The raw prediction matrix does not have the expected shape.",
}

func IsInvalidPrediction(err error) bool {
	return errors.Is(err, invalidPredictionError)
}
