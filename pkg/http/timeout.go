package http

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned by FetchWithTimeout when the deadline fires before
// the response has been read.
var ErrTimeout = errors.New("request timed out")

// FetchWithTimeout is SendAndParse bounded by its own deadline. The in-flight
// request is cancelled when the deadline fires and the timer is released on
// every return path. A non-positive timeout adds no deadline.
func (c *Client) FetchWithTimeout(ctx context.Context, opts *RequestOptions, timeout time.Duration, dest interface{}) error {
	if timeout <= 0 {
		return c.SendAndParse(ctx, opts, dest)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := c.SendAndParse(ctx, opts, dest)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s: %w", ErrTimeout, timeout, err)
	}
	return err
}
