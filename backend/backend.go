// Package backend implements the bridge's Backend interface on top of the
// XGBoost Python API. Every call renders a Python script and runs it in a
// child process. Matrices are exchanged as .npy files.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xh3b4sd/tracer"

	"github.com/xh3b4sd/xgbridge"
	"github.com/xh3b4sd/xgbridge/dmatrix"
	"github.com/xh3b4sd/xgbridge/param"
	"github.com/xh3b4sd/xgbridge/prediction"
	"github.com/xh3b4sd/xgbridge/varimp"
)

type Backend struct {
	// Deb forwards the output of the child processes to stdout and stderr.
	Deb bool
	// Pat is the required data path in which every trained booster gets its
	// own directory.
	//
	//     $ tree /tmp/xgbridge/
	//     /tmp/xgbridge/
	//     └── 0c9b1f0e-5d7c-4d0c-a8f3-0d3b5bd3c6a1
	//         ├── fea.npy
	//         ├── imp.json
	//         ├── lab.npy
	//         ├── mod.ubj
	//         ├── nam.json
	//         └── par.json
	//
	Pat string
	// Pyt is the Python interpreter. Defaults to python3.
	Pyt string
	// Tra is the Python training script template.
	Tra string
	// Pre is the Python prediction script template.
	Pre string
}

// Booster is the handle of a booster persisted by the Backend.
type Booster struct {
	Dir string
}

func (b *Booster) Key() string {
	return b.Dir
}

func (b *Backend) Train(ctx context.Context, par param.Params, dm *dmatrix.DMatrix) (xgbridge.Handle, error) {
	{
		b.configs()
	}

	if dm.Features == nil {
		return nil, tracer.Mask(fmt.Errorf("%w: empty training matrix", executionFailedError))
	}

	boo := &Booster{Dir: filepath.Join(b.Pat, uuid.New().String())}

	{
		err := os.MkdirAll(boo.Dir, 0o755)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	err := b.train(ctx, boo, par, dm)
	if err != nil {
		_ = os.RemoveAll(boo.Dir)
		return nil, tracer.Mask(err)
	}

	log.Debug().Str("booster", boo.Dir).Int("rows", dm.Rows()).Msg("trained booster")

	return boo, nil
}

func (b *Backend) train(ctx context.Context, boo *Booster, par param.Params, dm *dmatrix.DMatrix) error {
	{
		err := writeNpy(filepath.Join(boo.Dir, "fea.npy"), dm.Features)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := writeNpy(filepath.Join(boo.Dir, "lab.npy"), dm.Labels)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	if len(dm.Weights) != 0 {
		err := writeNpy(filepath.Join(boo.Dir, "wei.npy"), dm.Weights)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := writeJSON(filepath.Join(boo.Dir, "par.json"), par)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := writeJSON(filepath.Join(boo.Dir, "nam.json"), dm.Names)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := b.run(ctx, b.Tra, map[string]interface{}{
			"Dir": boo.Dir,
			"Wei": len(dm.Weights) != 0,
		})
		if err != nil {
			return tracer.Mask(err)
		}
	}

	{
		err := artefact(filepath.Join(boo.Dir, "mod.ubj"))
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

func (b *Backend) Predict(ctx context.Context, han xgbridge.Handle, dm *dmatrix.DMatrix) (prediction.Raw, error) {
	{
		b.configs()
	}

	boo, err := booster(han)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	if dm.Features == nil {
		return nil, tracer.Mask(fmt.Errorf("%w: empty scoring matrix", executionFailedError))
	}

	var inp, out string
	{
		id := uuid.New().String()

		inp = filepath.Join(boo.Dir, "inp-"+id+".npy")
		out = filepath.Join(boo.Dir, "out-"+id+".npy")

		defer os.Remove(inp)
		defer os.Remove(out)
	}

	{
		err := writeNpy(inp, dm.Features)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		err := b.run(ctx, b.Pre, map[string]interface{}{
			"Dir": boo.Dir,
			"Inp": inp,
			"Out": out,
		})
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	{
		err := artefact(out)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	raw, err := ReadRaw(out)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	return raw, nil
}

// Importance returns the split counts the training script recorded, named
// after the feature names of the training matrix where available.
func (b *Backend) Importance(ctx context.Context, han xgbridge.Handle) ([]varimp.Score, error) {
	boo, err := booster(han)
	if err != nil {
		return nil, tracer.Mask(err)
	}

	var raw [][]interface{}
	{
		err := readJSON(filepath.Join(boo.Dir, "imp.json"), &raw)
		if err != nil {
			return nil, tracer.Mask(err)
		}
	}

	var nam []string
	{
		ok, err := present(filepath.Join(boo.Dir, "nam.json"))
		if err != nil {
			return nil, tracer.Mask(err)
		}

		if ok {
			err := readJSON(filepath.Join(boo.Dir, "nam.json"), &nam)
			if err != nil {
				return nil, tracer.Mask(err)
			}
		}
	}

	var sco []varimp.Score
	for _, r := range raw {
		if len(r) != 2 {
			return nil, tracer.Mask(fmt.Errorf("%w: malformed importance entry %v", executionFailedError, r))
		}

		key, ok := r[0].(string)
		if !ok {
			return nil, tracer.Mask(fmt.Errorf("%w: malformed importance name %v", executionFailedError, r[0]))
		}

		val, ok := r[1].(float64)
		if !ok {
			return nil, tracer.Mask(fmt.Errorf("%w: malformed importance value %v", executionFailedError, r[1]))
		}

		sco = append(sco, varimp.Score{Name: feature(key, nam), Value: int(val)})
	}

	return sco, nil
}

func (b *Backend) Release(han xgbridge.Handle) error {
	boo, err := booster(han)
	if err != nil {
		return tracer.Mask(err)
	}

	{
		err := os.RemoveAll(boo.Dir)
		if err != nil {
			return tracer.Mask(err)
		}
	}

	return nil
}

func (b *Backend) configs() {
	if b.Pat == "" {
		panic("Backend.Pat must not be empty")
	}

	if b.Pyt == "" {
		b.Pyt = "python3"
	}

	if b.Tra == "" {
		b.Tra = tratem
	}

	if b.Pre == "" {
		b.Pre = pretem
	}
}

func booster(han xgbridge.Handle) (*Booster, error) {
	boo, ok := han.(*Booster)
	if !ok || boo == nil {
		return nil, tracer.Mask(fmt.Errorf("%w: %T", unknownHandleError, han))
	}

	return boo, nil
}

// feature translates the positional feature names XGBoost assigns, f0, f1
// and so on, into the names of the training matrix.
func feature(key string, nam []string) string {
	if !strings.HasPrefix(key, "f") {
		return key
	}

	var i int
	{
		_, err := fmt.Sscanf(key, "f%d", &i)
		if err != nil || i < 0 || i >= len(nam) || fmt.Sprintf("f%d", i) != key {
			return key
		}
	}

	return nam[i]
}

// present reports whether pat exists. Stat errors other than a missing file
// are returned.
func present(pat string) (bool, error) {
	_, err := os.Stat(pat)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, tracer.Mask(err)
	}

	return true, nil
}

// artefact fails with executionFailedError unless the child process wrote
// pat.
func artefact(pat string) error {
	ok, err := present(pat)
	if err != nil {
		return tracer.Mask(err)
	}

	if !ok {
		return tracer.Mask(fmt.Errorf("%w: no artefact written to %s", executionFailedError, pat))
	}

	return nil
}

func writeJSON(pat string, val interface{}) error {
	byt, err := json.Marshal(val)
	if err != nil {
		return tracer.Mask(err)
	}

	err = os.WriteFile(pat, byt, 0o644)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}

func readJSON(pat string, val interface{}) error {
	byt, err := os.ReadFile(pat)
	if err != nil {
		return tracer.Mask(err)
	}

	err = json.Unmarshal(byt, val)
	if err != nil {
		return tracer.Mask(err)
	}

	return nil
}
