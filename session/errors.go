package session

import "github.com/healthcard/orientation/internal/apperr"

var (
	errMissingDate = &apperr.Error{
		Message: "session window has no date",
	}

	errNotDayStart = &apperr.Error{
		Message: "session date %s is not the start of a reference day",
	}

	errInvalidWindow = &apperr.Error{
		Message: "session window [%d, %d) must satisfy 0 <= start < end <= 1439",
	}
)

// ErrInvalidWindow is matched by every window validation failure.
var ErrInvalidWindow = errInvalidWindow
