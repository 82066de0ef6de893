// Package parallel provides a bounded fork-join map over independent inputs.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map calls f for every element of in and returns the results in input
// order. At most GOMAXPROCS calls run at once; f must not share mutable
// state between calls.
func Map[In, Out any](in []In, f func(In) Out) []Out {
	out := make([]Out, len(in))
	if len(in) == 0 {
		return out
	}
	if len(in) == 1 {
		out[0] = f(in[0])
		return out
	}

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i := range in {
		eg.Go(func() error {
			out[i] = f(in[i])
			return nil
		})
	}
	// f cannot fail, so Wait only joins.
	_ = eg.Wait()
	return out
}
