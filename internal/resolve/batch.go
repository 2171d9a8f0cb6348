// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/bibcheck/internal/classify"
	"github.com/pdiddy/bibcheck/pkg/types"
)

// ResolveAll resolves entries with up to workers entries in flight and
// returns one Resolution per entry, in input order. A progress line per
// entry is written to w. Cancelling ctx stops scheduling new entries; the
// remaining ones are returned unchecked.
func (r *Resolver) ResolveAll(ctx context.Context, entries []types.Entry, workers int, w io.Writer) []Resolution {
	if workers < 1 {
		workers = 1
	}
	out := make([]Resolution, len(entries))
	for i, e := range entries {
		out[i] = Resolution{Kind: classify.Classify(e)}
	}
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res := r.Resolve(gctx, e)
			out[i] = res

			mu.Lock()
			done++
			fmt.Fprintf(w, "[%d/%d] %s: %s\n", done, len(entries), e.ID, res.Status)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return out
}
