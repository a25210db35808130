package intent

import "errors"

var (
	ErrMissingDestination = errors.New("trip segment destination is empty")
	ErrMissingDates       = errors.New("trip segment dates are missing")
	ErrInvertedDates      = errors.New("trip segment ends before it starts")
	ErrUnparsableDate     = errors.New("unparsable date expression")
)
