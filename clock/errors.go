package clock

import "github.com/healthcard/orientation/internal/apperr"

var (
	// ErrNotSynced is returned by Now until the clock is anchored.
	ErrNotSynced = &apperr.Error{
		Message: "trusted time is not available yet",
	}

	errFetchServerTime = &apperr.Error{
		Message: "fetching server time failed",
	}

	errAuthorityStatus = &apperr.Error{
		Message: "time authority responded with status %d",
	}

	errAuthorityPayload = &apperr.Error{
		Message: "time authority returned no %s",
	}
)
