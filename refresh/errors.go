package refresh

import "github.com/healthcard/orientation/internal/apperr"

var (
	errAlreadyStarted = &apperr.Error{
		Message: "refresh scheduler is already running",
	}

	errSchedule = &apperr.Error{
		Message: "unable to schedule the refresh job",
	}

	errPanic = &apperr.Error{
		Message: "refresh callback panicked",
	}
)
