package client

import "errors"

var ErrUnavailable = errors.New("auth service unavailable")
