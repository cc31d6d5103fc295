package store

import "errors"

var ErrInvalidDoorState = errors.New("invalid door state")
