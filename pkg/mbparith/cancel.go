package mbparith

import "context"

// checkCancel consults ctx at the well-defined points spec.md §5 names:
// each top-level literal and each variable allocation. It mirrors the
// teacher's own use of context.Context as a cooperative cancellation
// signal (slg_wrappers.go, control_flow.go), generalized from a
// goroutine-stream setting to this package's synchronous one.
func checkCancel(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return newProjectError(ErrCancelled, "%v", ctx.Err())
	default:
		return nil
	}
}
