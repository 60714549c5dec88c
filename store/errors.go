package store

import "github.com/healthcard/orientation/internal/apperr"

var (
	errUnknownDriver = &apperr.Error{
		Message: "unknown store driver %q: use bolt or sqlite",
	}

	errStoreLocked = &apperr.Error{
		Message: "is orient already running? The store at %s is locked by another process",
	}

	errMissingScheduleID = &apperr.Error{
		Message: "session has no schedule ID",
	}

	errMissingDate = &apperr.Error{
		Message: "session %s has no date",
	}

	errInvalidScanType = &apperr.Error{
		Message: "invalid scan type %q",
	}

	errMissingTimestamp = &apperr.Error{
		Message: "scan event has no timestamp",
	}

	errDecode = &apperr.Error{
		Message: "unable to decode record %s",
	}

	errMigrate = &apperr.Error{
		Message: "migrating store schema to version %d failed",
	}

	errSchemaVersion = &apperr.Error{
		Message: "store schema version %d is newer than supported version %d",
	}
)
