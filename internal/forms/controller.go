package forms

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/recipeshare/internal/logging"
)

// WriteFunc performs the external write for a validated draft
type WriteFunc func(ctx context.Context, d Draft) error

// Controller runs validated, single-flight submissions
type Controller struct {
	guard Guard
}

// NewController creates a Controller. A nil guard falls back to a LocalGuard.
func NewController(guard Guard) *Controller {
	if guard == nil {
		guard = NewLocalGuard()
	}
	return &Controller{guard: guard}
}

// InFlight reports whether key has a submission in progress
func (c *Controller) InFlight(ctx context.Context, key string) bool {
	return c.guard.Held(ctx, key)
}

// Submit validates d and, when it is complete, calls write while holding the
// guard for key. Validation failures return a *ValidationError without
// calling write. A concurrent call for the same key returns
// ErrSubmissionInFlight. Write errors are returned unchanged.
func (c *Controller) Submit(ctx context.Context, key string, d Draft, write WriteFunc) error {
	if err := d.Validate(); err != nil {
		return err
	}

	release, err := c.guard.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, ErrSubmissionInFlight) {
			logging.Debug("submission rejected while another is in flight", zap.String("key", key))
		}
		return err
	}
	defer release()

	if err := write(ctx, d.Trimmed()); err != nil {
		logging.Error("recipe submission failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}
