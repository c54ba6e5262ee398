package studio

import "errors"

var ErrInvalidWidth = errors.New("invalid preview width")
