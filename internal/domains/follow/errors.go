package follow

import "errors"

// ErrSelfFollow is returned by repositories asked to store a self edge.
// The service never gets that far.
var ErrSelfFollow = errors.New("users cannot follow themselves")
