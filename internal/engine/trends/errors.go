package trends

import "errors"

// Sentinel kinds for trend lifecycle errors.
var (
	ErrTrendActive  = errors.New("a trend challenge is already active")
	ErrNoTrend      = errors.New("no active trend challenge")
	ErrNoSubmission = errors.New("no submission found")
)
