package folders

import "errors"

var ErrNotFound = errors.New("folder not found")
