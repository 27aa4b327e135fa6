package config

import "os"

// GPUAvailable reports whether the process environment signals a CUDA
// installation. It is evaluated on every call.
func GPUAvailable() bool {
	_, ok := os.LookupEnv("CUDA_PATH")
	return ok
}
