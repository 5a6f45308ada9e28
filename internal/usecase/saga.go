package usecase

import (
	"context"

	"medconnect/pkg/logger"
)

// step is one side of a two-sided write and the write that reverts it.
type step struct {
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// twoSided writes a then b. If b fails, a is reverted and b's error is
// returned. A failed revert is logged; there is no retry.
func twoSided(ctx context.Context, a step, b func(ctx context.Context) error) error {
	if err := a.do(ctx); err != nil {
		return err
	}
	if err := b(ctx); err != nil {
		if a.undo != nil {
			if uerr := a.undo(ctx); uerr != nil {
				logger.RecordError(uerr, "saga compensation")
			}
		}
		return err
	}
	return nil
}
