package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	testCases := map[string]struct {
		alias Alias
		value float64
		src   Source
	}{
		"native at sentinel": {
			alias: Alias{Key: "eta", Uni: 0.1, Nat: 0},
			value: 0.1,
			src:   Unified,
		},
		"native set": {
			alias: Alias{Key: "eta", Uni: 0.1, Nat: 0.3},
			value: 0.3,
			src:   Native,
		},
		"both equal": {
			alias: Alias{Key: "gamma", Uni: 2, Nat: 2},
			value: 2,
			src:   Native,
		},
		"unified at zero": {
			alias: Alias{Key: "gamma", Uni: 0, Nat: 0},
			value: 0,
			src:   Unified,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			val, src := Resolve(tc.alias)
			assert.Equal(t, tc.value, val)
			assert.Equal(t, tc.src, src)
		})
	}
}

func TestAliases(t *testing.T) {
	cfg := Default()
	cfg.Eta = 0.3

	a, ok := cfg.Alias("eta")
	require.True(t, ok)
	assert.Equal(t, "learn_rate", a.Unified)
	assert.Equal(t, 0.1, a.Uni)
	assert.Equal(t, 0.3, a.Nat)

	_, ok = cfg.Alias("lambda")
	assert.False(t, ok)

	seen := map[string]bool{}
	for _, a := range cfg.Aliases() {
		assert.False(t, seen[a.Key], a.Key)
		seen[a.Key] = true
	}
	assert.Len(t, seen, 8)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	{
		cfg, err := Load(filepath.Join(dir, "missing.toml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	}

	{
		pat := filepath.Join(dir, "xgb.toml")
		txt := `
ntrees = 120
eta = 0.3
grow_policy = "lossguide"
booster = "dart"
distribution = "tweedie"
tweedie_power = 1.2
`
		require.NoError(t, os.WriteFile(pat, []byte(txt), 0o600))

		cfg, err := Load(pat)
		require.NoError(t, err)
		assert.Equal(t, 120, cfg.Ntrees)
		assert.Equal(t, 0.3, cfg.Eta)
		assert.Equal(t, 0.1, cfg.LearnRate)
		assert.Equal(t, Lossguide, cfg.GrowPolicy)
		assert.Equal(t, Dart, cfg.Booster)
		assert.Equal(t, Tweedie, cfg.Distribution)
		assert.Equal(t, 1.2, cfg.TweediePower)
		assert.Equal(t, 5, cfg.MaxDepth)
	}
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(`ntrees = "many"`)
	assert.Error(t, err)
}

func TestGPUAvailable(t *testing.T) {
	t.Setenv("CUDA_PATH", "/usr/local/cuda")
	assert.True(t, GPUAvailable())

	require.NoError(t, os.Unsetenv("CUDA_PATH"))
	assert.False(t, GPUAvailable())
}
