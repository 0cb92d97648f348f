package generatedresumes

import "errors"

// ErrNotFound indicates the resume has no generated CV row.
var ErrNotFound = errors.New("generated cv not found")
