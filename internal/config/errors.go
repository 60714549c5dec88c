package config

import "github.com/healthcard/orientation/internal/apperr"

var (
	errConfigOption = &apperr.Error{
		Message: "config option error",
	}

	errConfigValidation = &apperr.Error{
		Message: "config validation error",
	}

	errReadConfig = &apperr.Error{
		Message: "reading config file failed",
	}

	errWriteConfig = &apperr.Error{
		Message: "writing default config failed",
	}

	errPrompt = &apperr.Error{
		Message: "user prompt failed",
	}

	errInvalidInterval = &apperr.Error{
		Message: "refresh interval must be between %v and %v, got %v",
	}

	errInvalidMaxUpcoming = &apperr.Error{
		Message: "dashboard.max_upcoming must be between %d and %d, got %d",
	}

	errInvalidTimeout = &apperr.Error{
		Message: "authority timeout must be positive, got %v",
	}

	errInvalidURL = &apperr.Error{
		Message: "authority url %q must be an absolute http(s) URL",
	}

	errInvalidDriver = &apperr.Error{
		Message: "store driver must be bolt or sqlite, got %q",
	}

	errInvalidLimit = &apperr.Error{
		Message: "history limit must be between %d and %d, got %d",
	}

	errInvalidScanType = &apperr.Error{
		Message: "scan type must be check-in or check-out, got %q",
	}

	errInvalidRange = &apperr.Error{
		Message: "--since (%s) must not be after --until (%s)",
	}

	errInvalidCLIDuration = &apperr.Error{
		Message: "invalid duration for --%s: %v",
	}

	errInvalidCLIDate = &apperr.Error{
		Message: "invalid date for --%s",
	}
)
