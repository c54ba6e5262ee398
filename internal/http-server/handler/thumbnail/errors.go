package thumbnail

import "errors"

var (
	ErrInvalidBody  = errors.New("invalid request body")
	ErrInvalidWidth = errors.New("invalid width parameter")
)
