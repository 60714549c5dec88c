package alert

import "github.com/healthcard/orientation/internal/apperr"

var errParseCmd = &apperr.Error{
	Message: "unable to parse settings.cmd option",
}
