package editor

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session closed")
	ErrStaleUpload     = errors.New("upload superseded by a newer one")
)
