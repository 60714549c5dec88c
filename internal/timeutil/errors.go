package timeutil

import "github.com/healthcard/orientation/internal/apperr"

var (
	errInvalidClock = &apperr.Error{
		Message: "invalid clock time: %q",
	}

	errInvalidSlot = &apperr.Error{
		Message: "invalid time slot: %q",
	}

	errInvalidDate = &apperr.Error{
		Message: "unable to parse date %q",
	}
)
