package checkin

import "errors"

// Checkin domain errors
var (
	ErrCheckinNotFound = errors.New("employee checkin not found")
	ErrNoCheckinIDs    = errors.New("no checkin ids provided")
)
