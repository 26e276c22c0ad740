package filesearch

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrOperationTimeout reports that an operation did not reach done within
// the caller's deadline. The operation itself is not cancelled server-side
// and may still complete later.
var ErrOperationTimeout = errors.New("operation polling timed out")

// GetOperation fetches the current state of a long-running operation.
func (c *Client) GetOperation(ctx context.Context, name string) (*Operation, error) {
	var op Operation
	if err := c.doJSON(ctx, http.MethodGet, "/v1beta/"+name, nil, &op); err != nil {
		return nil, err
	}
	return &op, nil
}

// WaitForOperation polls an operation on a fixed interval until it is done
// or ctx ends. A deadline expiry maps to ErrOperationTimeout; any other
// ctx cancellation (client disconnect) is returned as-is. onTick, if not
// nil, is called after every unfinished poll with the elapsed wait.
func (c *Client) WaitForOperation(ctx context.Context, name string, interval time.Duration, onTick func(elapsed time.Duration)) (*Operation, error) {
	started := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrOperationTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
			op, err := c.GetOperation(ctx, name)
			if err != nil {
				// A deadline can also surface through the HTTP round trip.
				if errors.Is(err, context.DeadlineExceeded) {
					return nil, ErrOperationTimeout
				}
				return nil, err
			}
			if op.Done {
				return op, nil
			}
			if onTick != nil {
				onTick(time.Since(started))
			}
		}
	}
}
