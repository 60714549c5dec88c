package app

import "github.com/healthcard/orientation/internal/apperr"

var (
	errMissingFixture = &apperr.Error{
		Message: "import requires the path to a fixture file",
	}

	errReadFixture = &apperr.Error{
		Message: "unable to read fixture %s",
	}

	errClockUnverified = &apperr.Error{
		Message: "trusted time is unavailable and unverified time is disabled",
	}

	errNotInteractive = &apperr.Error{
		Message: "--interactive requires a terminal",
	}
)
