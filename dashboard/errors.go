package dashboard

import "github.com/healthcard/orientation/internal/apperr"

var errFetchSnapshot = &apperr.Error{
	Message: "fetching sessions for %s failed",
}
