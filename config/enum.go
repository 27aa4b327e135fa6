package config

// Family is the distribution family of the response column.
type Family string

const (
	Auto        Family = "auto"
	Bernoulli   Family = "bernoulli"
	Gamma       Family = "gamma"
	Gaussian    Family = "gaussian"
	Huber       Family = "huber"
	Laplace     Family = "laplace"
	Multinomial Family = "multinomial"
	Poisson     Family = "poisson"
	Quantile    Family = "quantile"
	Tweedie     Family = "tweedie"
)

type TreeMethod string

const (
	TreeMethodAuto   TreeMethod = "auto"
	TreeMethodExact  TreeMethod = "exact"
	TreeMethodApprox TreeMethod = "approx"
	TreeMethodHist   TreeMethod = "hist"
)

// GrowPolicy decides whether trees grow level by level or leaf by leaf.
type GrowPolicy string

const (
	Depthwise GrowPolicy = "depthwise"
	Lossguide GrowPolicy = "lossguide"
)

type Booster string

const (
	Gbtree   Booster = "gbtree"
	Gblinear Booster = "gblinear"
	Dart     Booster = "dart"
)

// SampleType is the dropout sampling of the dart booster.
type SampleType string

const (
	Uniform  SampleType = "uniform"
	Weighted SampleType = "weighted"
)

// NormalizeType is the dropout normalization of the dart booster.
type NormalizeType string

const (
	NormalizeTree   NormalizeType = "tree"
	NormalizeForest NormalizeType = "forest"
)

type DMatrixType string

const (
	DMatrixAuto   DMatrixType = "auto"
	DMatrixDense  DMatrixType = "dense"
	DMatrixSparse DMatrixType = "sparse"
)
