package frame

import (
	"context"
	"runtime"

	"github.com/xh3b4sd/tracer"
	"golang.org/x/sync/errgroup"
)

// Chunk is a half open row range [Start, End) of a frame.
type Chunk struct {
	Idx   int
	Start int
	End   int
}

// Len returns the number of rows in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Chunks partitions rows into consecutive chunks of at most siz rows.
func Chunks(row int, siz int) []Chunk {
	if siz <= 0 {
		siz = DefaultSize
	}

	var chu []Chunk
	for s := 0; s < row; s += siz {
		e := s + siz
		if e > row {
			e = row
		}

		chu = append(chu, Chunk{Idx: len(chu), Start: s, End: e})
	}

	return chu
}

// Map runs fun once for every chunk, using at most wor goroutines. Chunks
// are visited in no particular order. Cancellation is checked before a chunk
// starts, never while fun runs. The first error stops all chunks that did
// not start yet and is returned.
func Map(ctx context.Context, chu []Chunk, wor int, fun func(Chunk) error) error {
	if wor <= 0 {
		wor = runtime.GOMAXPROCS(0)
	}

	grp, gtx := errgroup.WithContext(ctx)
	grp.SetLimit(wor)

	for _, c := range chu {
		c := c

		if gtx.Err() != nil {
			break
		}

		grp.Go(func() error {
			if gtx.Err() != nil {
				return gtx.Err()
			}

			err := fun(c)
			if err != nil {
				return tracer.Mask(err)
			}

			return nil
		})
	}

	err := grp.Wait()
	if err != nil {
		return tracer.Mask(err)
	}

	// The loop above may stop early on cancellation without any goroutine
	// observing it.
	if ctx.Err() != nil {
		return tracer.Mask(ctx.Err())
	}

	return nil
}
