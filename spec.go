package xgbridge

import (
	"context"

	"github.com/xh3b4sd/xgbridge/dmatrix"
	"github.com/xh3b4sd/xgbridge/param"
	"github.com/xh3b4sd/xgbridge/prediction"
	"github.com/xh3b4sd/xgbridge/varimp"
)

// Handle identifies a trained booster living inside a Backend. A Handle is
// read-only for as long as any scoring call holds it. Handles must only be
// released through the Backend that created them.
type Handle interface {
	// Key is the unique identity of the trained booster, e.g. the directory
	// the Python backend persisted the booster to.
	Key() string
}

// Backend describes the external XGBoost implementation the bridge negotiates
// with. Creating a new backend might be as simple as shown below.
//
//     bac := &backend.Backend{}
//
type Backend interface {
	// Train fits a booster given the canonical parameter set produced by the
	// parameter translator and the encoded training matrix. Suppose a
	// translated parameter set and an encoded training frame.
	//
	//     par, err := param.Translate(cfg, 2, frame.Stats{})
	//     dtr := des.DMatrix(trn, obs)
	//
	// A backend instance implementing the Backend interface trains the
	// booster and returns the handle to it.
	//
	//     han, err := bac.Train(ctx, par, dtr)
	//
	// The parameter keys are the native XGBoost names in emission order. Values
	// are numeric, string or boolean.
	Train(context.Context, param.Params, *dmatrix.DMatrix) (Handle, error)
	// Predict scores the encoded matrix with the given booster and returns the
	// column-major raw prediction matrix. For regression and binary models the
	// matrix has a single column. For a binary model this column holds the
	// probability of class 1. For a multinomial model the matrix has one
	// column per class.
	//
	//     raw[c][r] // probability of class c for row r
	//
	Predict(context.Context, Handle, *dmatrix.DMatrix) (prediction.Raw, error)
	// Importance returns the split counts per feature of the given booster in
	// the order the backend reports them. Features that were never used for a
	// split may be absent. An empty result is valid.
	Importance(context.Context, Handle) ([]varimp.Score, error)
	// Release frees all resources of the given booster. The handle must not
	// be used anymore after calling Release.
	Release(Handle) error
}
