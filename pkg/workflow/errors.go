package workflow

import "errors"

// ErrSubmissionInFlight is returned when Submit is called while a previous
// attempt has not returned to idle.
var ErrSubmissionInFlight = errors.New("workflow: submission already in flight")
