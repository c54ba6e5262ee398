package export

import "errors"

var ErrCaptureFailed = errors.New("failed to capture preview")
