// Package async provides a minimal Future abstraction used by the dispatch
// layer to hand out awaitable results for work executed on the shared
// worker pool.
//
// A Future is created with Run (spawns a goroutine) or Resolved (already
// completed). Callers that need the outcome synchronously call Await or
// AwaitWithTimeout; fire-and-forget callers simply drop the future.
//
//	fut := async.Run(ctx, func(ctx context.Context) (int, error) {
//	    return compute(ctx)
//	})
//	n, err := fut.Await()
//
// WaitAll joins a set of futures preserving order, which is the join
// primitive behind bulk fan-out.
package async
