package syncer

import "errors"

var ErrUnknownRole = errors.New("role is not in the partition registry")
