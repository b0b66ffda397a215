package service

import "log/slog"

// compensate undoes an earlier write after a later step of the same logical
// operation failed. The gateway offers no cross-call transaction, so this is
// the strongest guarantee available: the compensating action runs exactly
// once, its own failure is logged and reported as a warning, and the original
// failure is what the caller sees, wrapped in a DatabaseError.
//
// A crash between the forward write and the compensation leaves an orphan
// row. That window is a known property of the design, not something this
// helper can close.
func compensate(op string, stepErr error, undo func() error) (warning string, err error) {
	if undoErr := undo(); undoErr != nil {
		slog.Error("compensation failed, orphan row likely",
			"op", op, "stepError", stepErr, "compensationError", undoErr)
		warning = undoErr.Error()
	}
	return warning, &DatabaseError{Op: op, Err: stepErr}
}
