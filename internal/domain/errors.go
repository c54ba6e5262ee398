package domain

import "errors"

var (
	ErrUnknownStyleToken = errors.New("unknown style token")
	ErrUnknownLayer      = errors.New("unknown image layer")
	ErrInvalidDataURI    = errors.New("invalid data uri")
)
