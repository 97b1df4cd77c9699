package core

import "errors"

// ErrConfig marks malformed or missing simulation parameters. It is fatal
// at construction time: a session is never started with a broken config.
var ErrConfig = errors.New("invalid configuration")
