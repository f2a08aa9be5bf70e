// Package asyncx provides the small set of concurrency helpers the services
// share.
//
// # Fire and forget
//
// [DoCtx] starts background work tied to a context, such as the startup
// report of leftover staging files:
//
//	asyncx.DoCtx(ctx, func(ctx context.Context) {
//	    _, _ = pipeline.ReportLingering(ctx)
//	})
//
// # Worker Pool
//
// [PoolSettled] runs a function over a slice with bounded concurrency and
// returns one [Result] per item, in order. It is what bulk email sends use so
// one rejected recipient never hides the outcome of the others:
//
//	results := asyncx.PoolSettled(ctx, 4, msgs, func(ctx context.Context, m notifx.Message) (notifx.DeliveryResult, error) {
//	    return svc.Send(ctx, m)
//	})
//	for i, r := range results {
//	    if !r.OK() {
//	        log.Printf("message %d: %v", i, r.Err)
//	    }
//	}
package asyncx
